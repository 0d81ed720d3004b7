// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	stopMu   sync.Mutex
	stoppers []func()
)

// onShutdown registers fn to run when the app shuts down.
func onShutdown(fn func()) {
	stopMu.Lock()
	defer stopMu.Unlock()
	stoppers = append(stoppers, fn)
}

// runStoppers runs and clears the registered stop funcs, newest first.
func runStoppers() {
	stopMu.Lock()
	fns := stoppers
	stoppers = nil
	stopMu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Shutdown cleanly tears down background workers, DB connections and
// other resources.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	runStoppers()

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	if deps.SQL != nil {
		sqlDB, err := deps.SQL.DB()
		if err != nil {
			return err
		}
		logger.Info("closing postgres pool")
		if err := sqlDB.Close(); err != nil {
			logger.Error("postgres close failed", zap.Error(err))
			return err
		}
	}
	return nil
}

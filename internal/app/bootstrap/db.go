// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/idlehub/internal/app/store/sqlstore"
	"github.com/dalemusser/idlehub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens the configured backend and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if appCfg.StoreBackend == BackendPostgres {
		db, err := sqlstore.Open(appCfg.PostgresDSN, logger)
		if err != nil {
			return DBDeps{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := sqlstore.Ping(ctx, db); err != nil {
			return DBDeps{}, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return DBDeps{Backend: BackendPostgres, SQL: db}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		Backend:       BackendMongo,
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates Mongo indexes or runs the GORM migrations.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Backend == BackendPostgres {
		if err := sqlstore.Migrate(ctx, deps.SQL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("postgres schema migrated")
		return nil
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}

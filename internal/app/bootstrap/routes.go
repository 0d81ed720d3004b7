// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	dashboardfeature "github.com/dalemusser/idlehub/internal/app/features/dashboard"
	departmentsfeature "github.com/dalemusser/idlehub/internal/app/features/departments"
	errorsfeature "github.com/dalemusser/idlehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/idlehub/internal/app/features/health"
	idleresourcesfeature "github.com/dalemusser/idlehub/internal/app/features/idleresources"
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/metrics"
	"github.com/dalemusser/idlehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	return newRouter(appCfg, deps.Stores(), deps, deps.Backend, sessionMgr, logger), nil
}

func engineConfig(appCfg AppConfig) resourceengine.Config {
	return resourceengine.Config{
		ThresholdMonths: appCfg.UrgentThresholdMonths,
		ImportMaxBytes:  appCfg.ImportMaxSize,
		ImportMaxRows:   appCfg.ImportMaxRows,
		ExportBatchSize: appCfg.ExportBatchSize,
	}
}

func newRouter(appCfg AppConfig, stores Stores, db healthfeature.Pinger, backend string, sessionMgr *auth.SessionManager, logger *zap.Logger) chi.Router {
	// Role and department changes take effect on the next request.
	sessionMgr.SetUserFetcher(stores.Users)

	engine := resourceengine.New(stores.Resources, stores.Departments, stores.CVFiles, engineConfig(appCfg), logger)

	r := chi.NewRouter()

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(db, backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	resourcesHandler := idleresourcesfeature.NewHandler(engine, logger)
	if appCfg.ExchangeRateLimit > 0 {
		limiter := ratelimit.New(appCfg.ExchangeRateLimit, time.Minute)
		onShutdown(limiter.Stop)
		resourcesHandler.Exchange = limiter
	}
	r.Mount("/idle-resources", idleresourcesfeature.Routes(resourcesHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(engine, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	departmentsHandler := departmentsfeature.NewHandler(stores.Departments, logger)
	r.Mount("/departments", departmentsfeature.Routes(departmentsHandler, sessionMgr))

	return r
}

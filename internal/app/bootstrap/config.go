// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"github.com/dalemusser/idlehub/internal/app/system/urgency"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for IdleHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, store_backend, etc.
//   - Environment variables: IDLEHUB_MONGO_URI, IDLEHUB_STORE_BACKEND, etc.
//   - Command-line flags: --mongo_uri, --store_backend, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Storage backend: 'mongo' or 'postgres'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "idlehub", Desc: "MongoDB database name"},
	{Name: "postgres_dsn", Default: "", Desc: "Postgres DSN (required when store_backend=postgres)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must match the sign-in service)"},
	{Name: "session_name", Default: "idlehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},

	{Name: "urgent_threshold_months", Default: urgency.DefaultThresholdMonths, Desc: "Months idle after which a resource is urgent"},
	{Name: "import_max_size", Default: xlsxutil.MaxUploadSize, Desc: "Maximum import file size in bytes"},
	{Name: "import_max_rows", Default: xlsxutil.MaxRows, Desc: "Maximum data rows per import"},
	{Name: "export_batch_size", Default: 500, Desc: "Rows fetched per storage round trip during export"},
	{Name: "exchange_rate_limit", Default: 10, Desc: "Imports and exports allowed per user per minute (0 disables)"},

	{Name: "timeout_medium", Default: "", Desc: "Deadline for list and search queries (e.g., 10s)"},
	{Name: "timeout_batch", Default: "", Desc: "Deadline for import and export (e.g., 60s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// IDLEHUB_* environment variables and flags (flags > env > files > defaults).
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "IDLEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:  strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		PostgresDSN:   appValues.String("postgres_dsn"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		UrgentThresholdMonths: appValues.Int("urgent_threshold_months"),
		ImportMaxSize:         int64(appValues.Int("import_max_size")),
		ImportMaxRows:         appValues.Int("import_max_rows"),
		ExportBatchSize:       appValues.Int("export_batch_size"),
		ExchangeRateLimit:     appValues.Int("exchange_rate_limit"),

		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutBatch:  appValues.Duration("timeout_batch", timeouts.DefaultBatch),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}

func validateAppConfig(appCfg AppConfig) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must not be empty")
		}
	case BackendPostgres:
		if strings.TrimSpace(appCfg.PostgresDSN) == "" {
			return fmt.Errorf("store_backend=postgres requires postgres_dsn")
		}
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendPostgres, appCfg.StoreBackend)
	}

	if appCfg.UrgentThresholdMonths < 1 {
		return fmt.Errorf("urgent_threshold_months must be at least 1")
	}
	if appCfg.ImportMaxSize < 1 || appCfg.ImportMaxRows < 1 || appCfg.ExportBatchSize < 1 {
		return fmt.Errorf("import_max_size, import_max_rows and export_batch_size must be positive")
	}
	if appCfg.ExchangeRateLimit < 0 {
		return fmt.Errorf("exchange_rate_limit must not be negative")
	}
	return nil
}

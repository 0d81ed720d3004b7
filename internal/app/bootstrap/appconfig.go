// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Storage backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig carries the framework-level settings (ports, TLS,
// logging, CORS, body limits). Everything IdleHub itself needs lives here
// and is passed to every lifecycle hook.
type AppConfig struct {
	// Storage backend: "mongo" (default) or "postgres"
	StoreBackend string

	// MongoDB connection configuration
	MongoURI      string // e.g., mongodb://localhost:27017
	MongoDatabase string

	// Postgres connection configuration (store_backend=postgres)
	PostgresDSN string

	// Session cookies are issued by the sign-in service that shares SessionKey
	SessionKey    string
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// Engine limits
	UrgentThresholdMonths int
	ImportMaxSize         int64 // bytes
	ImportMaxRows         int
	ExportBatchSize       int
	ExchangeRateLimit     int   // imports plus exports per user per minute; 0 disables

	// Handler deadlines (zero keeps the timeouts package default)
	TimeoutMedium time.Duration
	TimeoutBatch  time.Duration
}

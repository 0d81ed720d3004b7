// internal/app/features/idleresources/handler.go
package idleresources

import (
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for idle resources.
// Exchange, when set, rate limits imports and exports per user.
type Handler struct {
	Engine   *resourceengine.Engine
	Exchange *ratelimit.Limiter
	Log      *zap.Logger
}

// NewHandler constructs an idle resources handler bound to an engine and logger.
func NewHandler(engine *resourceengine.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

// internal/app/features/idleresources/routes.go
package idleresources

import (
	"net/http"

	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the idle resource API under the base path
// (typically "/idle-resources" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Read routes: any signed-in role; scoping happens in the engine.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/search", h.ServeSearch)
		pr.With(h.exchangeLimit).Get("/export", h.ServeExport)
		pr.Get("/template", h.ServeTemplate)
		pr.Get("/{id}", h.ServeGet)
		pr.Get("/{id}/cv-files", h.ServeCVFiles)
	})

	// Write routes: viewers are rejected before the handler runs.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.WriterRoles()...))

		pr.Post("/", h.HandleCreate)
		pr.With(h.exchangeLimit).Post("/import", h.HandleImport)
		pr.Post("/batch-delete", h.HandleBatchDelete)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

func (h *Handler) exchangeLimit(next http.Handler) http.Handler {
	if h.Exchange == nil {
		return next
	}
	return ratelimit.Middleware(h.Exchange, limitKey)(next)
}

// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard under the base path (typically "/dashboard").
// Any signed-in role may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/data", h.ServeData)
		pr.Get("/statistics", h.ServeStatistics)
		pr.Get("/department-stats", h.ServeDepartmentStats)
		pr.Get("/recent-activities", h.ServeRecentActivities)
	})
	return r
}

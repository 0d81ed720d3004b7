// internal/app/features/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves dashboard aggregates. Every endpoint accepts the idle
// resource list filters and is scoped to the caller's role.
type Handler struct {
	Engine *resourceengine.Engine
	Log    *zap.Logger
}

func NewHandler(engine *resourceengine.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func caller(w http.ResponseWriter, r *http.Request) (authz.Caller, bool) {
	c, ok := authz.CallerFromRequest(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, apierrors.Body{Error: "unauthorized"})
		return authz.Caller{}, false
	}
	return c, true
}

// ServeData handles GET /dashboard/data.
func (h *Handler) ServeData(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard data")
	defer cancel()

	d, err := h.Engine.Dashboard(ctx, r.URL.Query(), c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, d)
}

// ServeStatistics handles GET /dashboard/statistics.
func (h *Handler) ServeStatistics(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard statistics")
	defer cancel()

	st, err := h.Engine.Statistics(ctx, r.URL.Query(), c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, st)
}

// ServeDepartmentStats handles GET /dashboard/department-stats.
func (h *Handler) ServeDepartmentStats(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard department stats")
	defer cancel()

	stats, err := h.Engine.DepartmentStats(ctx, r.URL.Query(), c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, map[string]any{"data": stats})
}

// ServeRecentActivities handles GET /dashboard/recent-activities.
// limit defaults to 10 and is capped at 50.
func (h *Handler) ServeRecentActivities(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "invalid limit: must be a positive integer", Field: "limit"})
			return
		}
		limit = n
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard recent activities")
	defer cancel()

	q := r.URL.Query()
	q.Del("limit")
	recent, err := h.Engine.RecentUpdates(ctx, q, limit, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, map[string]any{"data": recent})
}

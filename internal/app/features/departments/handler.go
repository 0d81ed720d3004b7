// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/system/auth"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Lister returns active departments ordered by name.
type Lister interface {
	ListActive(ctx context.Context) ([]models.Department, error)
}

// Handler serves the department picker.
type Handler struct {
	Departments Lister
	Log         *zap.Logger
}

func NewHandler(deps Lister, logger *zap.Logger) *Handler {
	return &Handler{Departments: deps, Log: logger}
}

type departmentItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ServeList handles GET /departments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "departments list")
	defer cancel()

	deps, err := h.Departments.ListActive(ctx)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	items := make([]departmentItem, 0, len(deps))
	for _, d := range deps {
		items = append(items, departmentItem{ID: d.ID, Name: d.Name, Code: d.Code})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": items})
}

// Routes mounts the department picker; any signed-in role may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})
	return r
}

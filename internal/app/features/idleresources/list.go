// internal/app/features/idleresources/list.go
package idleresources

import (
	"net/http"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
)

// ServeList handles GET /idle-resources with filters, sort and paging.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "idle resources list")
	defer cancel()

	page, err := h.Engine.Query(ctx, r.URL.Query(), c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ServeSearch handles GET /idle-resources/search. Same parameters as the
// list; a search term switches to relevance ranking.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "idle resources search")
	defer cancel()

	page, err := h.Engine.Search(ctx, r.URL.Query(), c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ServeGet handles GET /idle-resources/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "idle resource get")
	defer cancel()

	rec, err := h.Engine.Get(ctx, id, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ServeCVFiles handles GET /idle-resources/{id}/cv-files.
func (h *Handler) ServeCVFiles(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "idle resource cv files")
	defer cancel()

	files, err := h.Engine.CVFiles(ctx, id, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": files})
}

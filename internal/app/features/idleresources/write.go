// internal/app/features/idleresources/write.go
package idleresources

import (
	"net/http"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/limits"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
)

// HandleCreate handles POST /idle-resources.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var in resourceengine.ResourceInput
	if !decodeBody(w, r, &in) {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "idle resource create")
	defer cancel()

	rec, err := h.Engine.Create(ctx, in, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// HandleUpdate handles PUT /idle-resources/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch resourceengine.ResourcePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "idle resource update")
	defer cancel()

	rec, err := h.Engine.Update(ctx, id, patch, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /idle-resources/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "idle resource delete")
	defer cancel()

	if err := h.Engine.Delete(ctx, id, c); err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// HandleBatchDelete handles POST /idle-resources/batch-delete.
// Missing ids are reported per id; the rest are still deleted.
func (h *Handler) HandleBatchDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req batchDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "ids must not be empty", Field: "ids"})
		return
	}
	if len(req.IDs) > limits.MaxBatchDeleteIDs {
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "too many ids in one request", Field: "ids"})
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "idle resource batch delete")
	defer cancel()

	res, err := h.Engine.BatchDelete(ctx, req.IDs, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

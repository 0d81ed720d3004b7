// Package errors writes JSON error responses and maps engine errors onto
// HTTP statuses.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"go.uber.org/zap"
)

// Body is the JSON error envelope.
type Body struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"unexpected,omitempty"`
}

// Write sends status with body as JSON.
func Write(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Respond maps err to a status and writes it. Unexpected errors are
// logged and reported without detail.
func Respond(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		ve *criteria.ValidationError
		se *xlsxutil.StructuralError
	)
	switch {
	case stderrors.As(err, &ve):
		Write(w, http.StatusBadRequest, Body{Error: ve.Error(), Field: ve.Field})
	case stderrors.As(err, &se):
		Write(w, http.StatusUnprocessableEntity, Body{Error: se.Reason, Missing: se.Missing, Extra: se.Unexpected})
	case stderrors.Is(err, resourceengine.ErrNotFound):
		Write(w, http.StatusNotFound, Body{Error: err.Error()})
	case stderrors.Is(err, resourceengine.ErrOutOfScope), stderrors.Is(err, resourceengine.ErrReadOnly):
		Write(w, http.StatusForbidden, Body{Error: err.Error()})
	case stderrors.Is(err, resourceengine.ErrDuplicateCode):
		Write(w, http.StatusConflict, Body{Error: err.Error(), Field: "employeeCode"})
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		Write(w, http.StatusInternalServerError, Body{Error: "internal server error"})
	}
}

// Handler serves router-level fallbacks.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound handles unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, Body{Error: "not found"})
}

// MethodNotAllowed handles a known route with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, Body{Error: "method not allowed"})
}

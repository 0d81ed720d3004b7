// internal/app/features/idleresources/helpers.go
package idleresources

import (
	"encoding/json"
	"net/http"
	"strconv"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	// highlights carry <mark> markup that is already escaped
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// caller resolves the signed-in identity or writes 401.
func caller(w http.ResponseWriter, r *http.Request) (authz.Caller, bool) {
	c, ok := authz.CallerFromRequest(r)
	if !ok {
		apierrors.Write(w, http.StatusUnauthorized, apierrors.Body{Error: "unauthorized"})
		return authz.Caller{}, false
	}
	return c, true
}

// limitKey buckets rate limiting by signed-in user.
func limitKey(r *http.Request) string {
	if c, ok := authz.CallerFromRequest(r); ok {
		return "user:" + strconv.FormatInt(c.UserID, 10)
	}
	return ""
}

// pathID parses the {id} URL parameter or writes 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "invalid id", Field: "id"})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "invalid JSON body"})
		return false
	}
	return true
}

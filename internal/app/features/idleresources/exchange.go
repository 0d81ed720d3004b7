// internal/app/features/idleresources/exchange.go
package idleresources

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"

	apierrors "github.com/dalemusser/idlehub/internal/app/features/errors"
	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/limits"
	"github.com/dalemusser/idlehub/internal/app/system/timeouts"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleImport handles POST /idle-resources/import with a multipart "file".
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	limit := h.Engine.Config().ImportMaxBytes

	r.Body = http.MaxBytesReader(w, r.Body, limit+limits.MultipartOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			apierrors.Respond(w, r, h.Log, &xlsxutil.StructuralError{Reason: "file exceeds the maximum upload size"})
			return
		}
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "expected a multipart form", Field: "file"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.Write(w, http.StatusBadRequest, apierrors.Body{Error: "no file uploaded", Field: "file"})
		return
	}
	defer file.Close()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "idle resources import")
	defer cancel()

	res, err := h.Engine.Import(ctx, file, header.Size, header.Filename, c)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ServeExport handles GET /idle-resources/export?format=xlsx|csv.
// The document is spooled to a temp file so a failed export never sends a
// partial body.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	format, err := resourceengine.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}

	tmp, err := os.CreateTemp("", "idlehub-export-"+uuid.NewString()+"-*")
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "idle resources export")
	defer cancel()

	info, err := h.Engine.Export(ctx, tmp, r.URL.Query(), c, format)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	size, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", attachment(info.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("X-Export-Id", info.ExportID)
	if _, err := io.Copy(w, tmp); err != nil {
		h.Log.Warn("export: client write failed", zap.String("export_id", info.ExportID), zap.Error(err))
	}
}

// ServeTemplate handles GET /idle-resources/template.
func (h *Handler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "idle resources template")
	defer cancel()

	var buf bytes.Buffer
	if err := h.Engine.Template(ctx, &buf); err != nil {
		apierrors.Respond(w, r, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", resourceengine.FormatXLSX.ContentType())
	w.Header().Set("Content-Disposition", attachment(resourceengine.TemplateFilename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

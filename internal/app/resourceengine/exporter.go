package resourceengine

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/policy/resourcescope"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/criteria"
	"github.com/dalemusser/idlehub/internal/app/system/csvutil"
	"github.com/dalemusser/idlehub/internal/app/system/metrics"
	"github.com/dalemusser/idlehub/internal/app/system/projection"
	"github.com/dalemusser/idlehub/internal/app/system/queryplan"
	"github.com/dalemusser/idlehub/internal/app/system/urgency"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "excel", "xlsx" or "csv"; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", &criteria.ValidationError{Field: "format", Reason: "must be excel or csv"}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return xlsxutil.ContentType
}

// Filename is the download name for an export produced on day.
func (f Format) Filename(day time.Time) string {
	return fmt.Sprintf("idle-resources-%s.%s", day.Format(xlsxutil.DateLayout), f)
}

// ExportInfo describes a finished export.
type ExportInfo struct {
	ExportID    string
	Filename    string
	ContentType string
	Rows        int
}

type rowWriter interface {
	WriteRow(values []interface{}, urgent bool) error
}

// Export writes every record matching params that caller may see. Search
// terms still filter but do not reorder. On error, w may hold a partial
// document; callers serving it over HTTP must buffer.
func (e *Engine) Export(ctx context.Context, w io.Writer, params url.Values, caller authz.Caller, format Format) (ExportInfo, error) {
	c, err := criteria.Parse(params)
	if err != nil {
		return ExportInfo{}, err
	}
	c = resourcescope.Scope(c, caller)

	now := e.now()
	p := queryplan.Compile(c, now, queryplan.Options{
		ThresholdMonths: e.cfg.ThresholdMonths,
		Unbounded:       true,
		Unranked:        true,
	})

	info := ExportInfo{
		ExportID:    uuid.NewString(),
		Filename:    format.Filename(now),
		ContentType: format.ContentType(),
	}
	log := e.log.With(zap.String("export_id", info.ExportID), zap.Int64("user_id", caller.UserID))

	var (
		rw     rowWriter
		finish func() error
	)
	switch format {
	case FormatCSV:
		cw, err := csvutil.NewWriter(w, xlsxutil.ExportHeader)
		if err != nil {
			return info, fmt.Errorf("write csv header: %w", err)
		}
		rw, finish = cw, cw.Finish
	default:
		sw, err := xlsxutil.NewStreamWriter(xlsxutil.ExportHeader)
		if err != nil {
			return info, fmt.Errorf("create workbook: %w", err)
		}
		defer sw.Abort()
		rw, finish = sw, func() error { return sw.Finish(w) }
	}

	err = e.resources.Each(ctx, p, e.cfg.ExportBatchSize, func(r models.ResourceRow) error {
		urgent := urgency.IsUrgent(r.IdleFrom, now, e.cfg.ThresholdMonths)
		if err := rw.WriteRow(exportValues(r, format), urgent); err != nil {
			return err
		}
		info.Rows++
		return nil
	})
	if err != nil {
		log.Error("export failed", zap.Int("rows", info.Rows), zap.Error(err))
		return info, fmt.Errorf("export idle resources: %w", err)
	}
	if err := finish(); err != nil {
		return info, fmt.Errorf("finish export: %w", err)
	}

	metrics.ExportRows.WithLabelValues(string(format)).Add(float64(info.Rows))
	log.Info("export completed", zap.String("format", string(format)), zap.Int("rows", info.Rows))
	return info, nil
}

// exportValues lays r out as xlsxutil.ExportHeader. Rate is numeric in
// workbooks and text in CSV so no precision is lost.
func exportValues(r models.ResourceRow, format Format) []interface{} {
	var rate interface{} = ""
	if r.Rate != nil {
		if format == FormatCSV {
			rate = r.Rate.String()
		} else {
			rate = r.Rate.InexactFloat64()
		}
	}
	email := ""
	if r.Email != nil {
		email = *r.Email
	}
	return []interface{}{
		r.EmployeeCode,
		r.FullName,
		r.DepartmentName,
		r.Position,
		email,
		r.SkillSet,
		projection.FormatDate(r.IdleFrom),
		formatDatePtr(r.IdleTo),
		r.Status.Label(),
		rate,
		r.ProcessNote,
		projection.FormatDate(r.CreatedAt),
		projection.FormatDate(r.UpdatedAt),
	}
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return projection.FormatDate(*t)
}

package resourceengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dalemusser/idlehub/internal/app/policy/resourcescope"
	"github.com/dalemusser/idlehub/internal/app/system/authz"
	"github.com/dalemusser/idlehub/internal/app/system/csvutil"
	"github.com/dalemusser/idlehub/internal/app/system/metrics"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportResult summarizes one import call. Errors are ordered by row.
type ImportResult struct {
	ImportID       string   `json:"importId"`
	SuccessCount   int      `json:"successCount"`
	ErrorCount     int      `json:"errorCount"`
	TotalProcessed int      `json:"totalProcessed"`
	Errors         []string `json:"errors"`
}

// rowOutcome is the result of one data row: err is nil on success.
type rowOutcome struct {
	row int
	err error
}

func (o rowOutcome) String() string {
	return fmt.Sprintf("Row %d: %s", o.row, o.err)
}

type fileFormat int

const (
	formatXLSX fileFormat = iota
	formatCSV
)

// Import reads a spreadsheet and inserts each valid row on its own.
// size is the declared upload size, or -1 when unknown.
//
// Problems with the file as a whole return a *xlsxutil.StructuralError and
// no rows are processed. Problems with a single row are reported in the
// result and the remaining rows still run.
func (e *Engine) Import(ctx context.Context, file io.Reader, size int64, filename string, caller authz.Caller) (ImportResult, error) {
	if !caller.Role.CanWrite() {
		return ImportResult{}, ErrReadOnly
	}
	importID := uuid.NewString()
	log := e.log.With(zap.String("import_id", importID), zap.Int64("user_id", caller.UserID))

	rows, err := e.readImportFile(file, size, filename)
	if err != nil {
		metrics.ImportsRejected.Inc()
		log.Warn("import rejected", zap.String("filename", filename), zap.Error(err))
		return ImportResult{}, err
	}

	res := ImportResult{ImportID: importID, Errors: []string{}}
	imp := importer{
		Engine: e,
		caller: caller,
		depts:  make(map[string]*models.Department),
		seen:   make(map[string]int),
	}
	for i, cells := range rows[1:] {
		if xlsxutil.IsBlank(cells) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import interrupted after %d rows: %w", res.TotalProcessed, err)
		}
		res.TotalProcessed++

		out, err := imp.row(ctx, i+1, cells)
		if err != nil {
			return res, err
		}
		if out.err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, out.String())
			continue
		}
		res.SuccessCount++
	}

	metrics.ImportRows.WithLabelValues("success").Add(float64(res.SuccessCount))
	metrics.ImportRows.WithLabelValues("error").Add(float64(res.ErrorCount))
	log.Info("import completed",
		zap.String("filename", filename),
		zap.Int("total", res.TotalProcessed),
		zap.Int("success", res.SuccessCount),
		zap.Int("errors", res.ErrorCount))
	return res, nil
}

// readImportFile returns every row, header first, after the size, type
// and header checks.
func (e *Engine) readImportFile(file io.Reader, size int64, filename string) ([][]string, error) {
	limit := e.cfg.ImportMaxBytes
	if size > limit {
		return nil, &xlsxutil.StructuralError{Reason: fmt.Sprintf("file is larger than %d bytes", limit)}
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, xlsxutil.Structural("could not read upload", err)
	}
	if int64(len(data)) > limit {
		return nil, &xlsxutil.StructuralError{Reason: fmt.Sprintf("file is larger than %d bytes", limit)}
	}
	if len(data) == 0 {
		return nil, &xlsxutil.StructuralError{Reason: "file is empty"}
	}

	format, err := detectFormat(data, filename)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case formatCSV:
		rows, err = csvutil.ReadRows(bytes.NewReader(data), e.cfg.ImportMaxRows)
	default:
		rows, err = xlsxutil.ReadRows(bytes.NewReader(data), e.cfg.ImportMaxRows)
	}
	if errors.Is(err, xlsxutil.ErrTooManyRows) || errors.Is(err, csvutil.ErrTooManyRows) {
		return nil, &xlsxutil.StructuralError{Reason: fmt.Sprintf("file has more than %d data rows", e.cfg.ImportMaxRows)}
	}
	if err != nil {
		return nil, xlsxutil.Structural("could not parse spreadsheet", err)
	}
	if len(rows) == 0 {
		return nil, &xlsxutil.StructuralError{Reason: "file has no header row", Missing: xlsxutil.ImportHeader}
	}
	if err := xlsxutil.ValidateHeader(rows[0], xlsxutil.ImportHeader); err != nil {
		return nil, err
	}
	return rows, nil
}

// detectFormat sniffs the content; the filename only disambiguates generic
// zip and plain-text detections.
func detectFormat(data []byte, filename string) (fileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(xlsxutil.ContentType):
			return formatXLSX, nil
		case m.Is("text/csv"):
			return formatCSV, nil
		case m.Is("application/zip") && ext == ".xlsx":
			return formatXLSX, nil
		case m.Is("text/plain") && ext == ".csv":
			return formatCSV, nil
		}
	}
	return 0, &xlsxutil.StructuralError{Reason: fmt.Sprintf("unsupported file type %s; upload an .xlsx or .csv file", mt.String())}
}

// importer carries per-call state: resolved departments and the codes this
// file has already inserted.
type importer struct {
	*Engine
	caller authz.Caller
	depts  map[string]*models.Department
	seen   map[string]int
}

// row processes one data row. A non-nil error is a storage failure that
// aborts the import; row-level problems come back in the outcome.
func (imp *importer) row(ctx context.Context, n int, cells []string) (rowOutcome, error) {
	fail := func(format string, args ...interface{}) (rowOutcome, error) {
		return rowOutcome{row: n, err: fmt.Errorf(format, args...)}, nil
	}

	parsed, err := ParseImportRow(cells)
	if err != nil {
		return rowOutcome{row: n, err: err}, nil
	}

	dep, err := imp.department(ctx, parsed.Department)
	if err != nil {
		return rowOutcome{}, err
	}
	if dep == nil {
		return fail("Department %q not found", parsed.Department)
	}
	if !resourcescope.AllowsDepartment(imp.caller, dep.ID) {
		return fail("Department %q is outside your scope", parsed.Department)
	}

	if first, ok := imp.seen[parsed.EmployeeCode]; ok {
		return fail("Employee Code %q duplicates row %d", parsed.EmployeeCode, first)
	}

	exists, err := imp.resources.ExistsByEmployeeCode(ctx, parsed.EmployeeCode)
	if err != nil {
		return rowOutcome{}, fmt.Errorf("row %d: check employee code: %w", n, err)
	}
	if exists {
		return fail("Employee Code %q already exists", parsed.EmployeeCode)
	}

	r := models.IdleResource{
		EmployeeCode: parsed.EmployeeCode,
		FullName:     parsed.FullName,
		DepartmentID: dep.ID,
		Position:     parsed.Position,
		SkillSet:     parsed.SkillSet,
		IdleFrom:     parsed.IdleFrom,
		Status:       parsed.Status,
		Rate:         parsed.Rate,
		CreatedBy:    imp.caller.UserID,
		UpdatedBy:    imp.caller.UserID,
	}
	if parsed.Email != "" {
		email := parsed.Email
		r.Email = &email
	}
	_, err = imp.resources.Create(ctx, r)
	if errors.Is(err, models.ErrDuplicateEmployeeCode) {
		return fail("Employee Code %q already exists", parsed.EmployeeCode)
	}
	if err != nil {
		return rowOutcome{}, fmt.Errorf("row %d: insert: %w", n, err)
	}
	imp.seen[parsed.EmployeeCode] = n
	return rowOutcome{row: n}, nil
}

func (imp *importer) department(ctx context.Context, name string) (*models.Department, error) {
	if d, ok := imp.depts[name]; ok {
		return d, nil
	}
	d, err := imp.departments.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up department %q: %w", name, err)
	}
	imp.depts[name] = d
	return d, nil
}

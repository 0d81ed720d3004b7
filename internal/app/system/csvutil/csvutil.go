// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyRows is returned when a file has more data rows than allowed.
var ErrTooManyRows = errors.New("too many rows")

const utf8BOM = "\ufeff"

// ReadRows reads every record, header included. A UTF-8 BOM on the first
// cell is dropped. Rows beyond maxRows data rows yield ErrTooManyRows;
// maxRows <= 0 uses MaxRows.
func ReadRows(r io.Reader, maxRows int) ([][]string, error) {
	if maxRows <= 0 {
		maxRows = MaxRows
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var out [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", len(out)+1, err)
		}
		if len(out) > maxRows {
			return nil, ErrTooManyRows
		}
		if len(out) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Writer writes export rows as CSV. Urgency styling has no CSV
// representation and is dropped.
type Writer struct {
	w *csv.Writer
}

// NewWriter writes header to dst and returns a row writer.
func NewWriter(dst io.Writer, header []string) (*Writer, error) {
	w := &Writer{w: csv.NewWriter(dst)}
	if err := w.w.Write(header); err != nil {
		return nil, err
	}
	return w, nil
}

// WriteRow appends one record.
func (w *Writer) WriteRow(values []interface{}, _ bool) error {
	rec := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			rec[i] = fmt.Sprint(v)
		}
	}
	return w.w.Write(rec)
}

// Finish flushes buffered records.
func (w *Writer) Finish() error {
	w.w.Flush()
	return w.w.Error()
}

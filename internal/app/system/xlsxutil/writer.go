// internal/app/system/xlsxutil/writer.go
package xlsxutil

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// StreamWriter writes a single styled data sheet row by row. Rows are
// spooled by excelize rather than held as cell objects, and nothing reaches
// the destination until Finish.
type StreamWriter struct {
	f      *excelize.File
	sw     *excelize.StreamWriter
	next   int
	header int
	urgent int
	body   int
}

// NewStreamWriter creates a workbook whose only sheet is DataSheet with
// header as its first row.
func NewStreamWriter(header []string) (*StreamWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		f.Close()
		return nil, err
	}

	w := &StreamWriter{f: f, next: 1}
	var err error
	if w.header, err = headerStyle(f); err != nil {
		f.Close()
		return nil, err
	}
	if w.urgent, err = urgentStyle(f); err != nil {
		f.Close()
		return nil, err
	}
	if w.body, err = bodyStyle(f); err != nil {
		f.Close()
		return nil, err
	}

	if w.sw, err = f.NewStreamWriter(DataSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.sw.SetColWidth(1, len(header), 18); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, err
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = excelize.Cell{StyleID: w.header, Value: h}
	}
	if err := w.writeRow(cells); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// WriteRow appends one data row; urgent rows get the highlight fill.
func (w *StreamWriter) WriteRow(values []interface{}, urgent bool) error {
	style := w.body
	if urgent {
		style = w.urgent
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = excelize.Cell{StyleID: style, Value: v}
	}
	return w.writeRow(cells)
}

// Finish flushes the sheet and writes the workbook to dst.
func (w *StreamWriter) Finish(dst io.Writer) error {
	defer w.f.Close()
	if err := w.sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return w.f.Write(dst)
}

// Abort releases the workbook without writing anything.
func (w *StreamWriter) Abort() {
	_ = w.f.Close()
}

func (w *StreamWriter) writeRow(cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.sw.SetRow(cell, cells); err != nil {
		return err
	}
	w.next++
	return nil
}

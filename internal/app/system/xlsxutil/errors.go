// internal/app/system/xlsxutil/errors.go
package xlsxutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooManyRows is returned when a file has more data rows than allowed.
var ErrTooManyRows = errors.New("too many rows")

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// StructuralError aborts a whole import: the file could not be read or its
// header does not match. No rows are processed.
type StructuralError struct {
	Reason     string
	Missing    []string
	Unexpected []string
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		fmt.Fprintf(&b, "; unexpected: %s", strings.Join(e.Unexpected, ", "))
	}
	return b.String()
}

// Structural wraps err as a StructuralError unless it already is one.
func Structural(reason string, err error) error {
	var se *StructuralError
	if errors.As(err, &se) {
		return se
	}
	if err == nil {
		return &StructuralError{Reason: reason}
	}
	return &StructuralError{Reason: reason + ": " + err.Error()}
}

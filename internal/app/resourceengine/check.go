package resourceengine

import (
	"fmt"
	"io"

	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
)

// Check validates a spreadsheet offline: file structure, header and the
// per-row field rules, plus duplicate codes within the file. Departments
// and existing codes are not looked up, so a clean check can still report
// row errors on import.
func (e *Engine) Check(file io.Reader, size int64, filename string) (ImportResult, error) {
	rows, err := e.readImportFile(file, size, filename)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Errors: []string{}}
	seen := make(map[string]int)
	for i, cells := range rows[1:] {
		if xlsxutil.IsBlank(cells) {
			continue
		}
		n := i + 1
		res.TotalProcessed++

		out := rowOutcome{row: n}
		parsed, err := ParseImportRow(cells)
		switch {
		case err != nil:
			out.err = err
		case seen[parsed.EmployeeCode] > 0:
			out.err = fmt.Errorf("Employee Code %q duplicates row %d", parsed.EmployeeCode, seen[parsed.EmployeeCode])
		default:
			seen[parsed.EmployeeCode] = n
		}
		if out.err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, out.String())
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

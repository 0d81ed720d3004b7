// internal/app/system/xlsxutil/header.go
package xlsxutil

import "strings"

// ValidateHeader checks that got equals want position by position after
// trimming each cell. Trailing empty cells are ignored. On mismatch it
// returns a *StructuralError listing missing and unexpected headers; when
// the sets agree but the order differs only the reason names the problem.
func ValidateHeader(got, want []string) error {
	cells := make([]string, 0, len(got))
	for _, c := range got {
		cells = append(cells, strings.TrimSpace(c))
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}

	if equal(cells, want) {
		return nil
	}

	have := make(map[string]bool, len(cells))
	for _, c := range cells {
		have[c] = true
	}
	expected := make(map[string]bool, len(want))
	for _, w := range want {
		expected[w] = true
	}

	e := &StructuralError{Reason: "invalid header row"}
	for _, w := range want {
		if !have[w] {
			e.Missing = append(e.Missing, w)
		}
	}
	for _, c := range cells {
		if !expected[c] {
			if c == "" {
				c = "(blank)"
			}
			e.Unexpected = append(e.Unexpected, c)
		}
	}
	if len(e.Missing) == 0 && len(e.Unexpected) == 0 {
		e.Reason = "header columns out of order; expected " + strings.Join(want, ", ")
	}
	return e
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

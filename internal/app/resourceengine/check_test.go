package resourceengine_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
)

func TestCheck_OfflineRowRules(t *testing.T) {
	data := xlsxFile(t, [][]string{
		header(),
		{"EMP1", "Ann", "Anywhere", "Developer", "", "", "2025-01-15", "50", "Idle"},
		{"EMP2", "Ben", "Anywhere", "Designer", "not-an-email", "", "2025-01-15", "", "Idle"},
		{},
		{"EMP1", "Cat", "Anywhere", "Tester", "", "", "2025-01-15", "", "Idle"},
	})
	eng := resourceengine.New(nil, nil, nil, resourceengine.Config{}, nil)

	res, err := eng.Check(bytes.NewReader(data), int64(len(data)), "check.xlsx")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.TotalProcessed != 3 || res.SuccessCount != 1 || res.ErrorCount != 2 {
		t.Errorf("counts: got %+v", res)
	}
	if len(res.Errors) != 2 || !strings.HasPrefix(res.Errors[0], "Row 2:") || !strings.Contains(res.Errors[1], "Row 4: Employee Code \"EMP1\" duplicates row 1") {
		t.Errorf("errors: got %v", res.Errors)
	}
}

func TestCheck_StructuralHeader(t *testing.T) {
	data := xlsxFile(t, [][]string{header()[:7]})
	eng := resourceengine.New(nil, nil, nil, resourceengine.Config{}, nil)

	_, err := eng.Check(bytes.NewReader(data), int64(len(data)), "check.xlsx")
	var se *xlsxutil.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
}

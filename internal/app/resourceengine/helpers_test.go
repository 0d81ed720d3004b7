package resourceengine_test

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/dalemusser/idlehub/internal/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)

type env struct {
	store       *testutil.MemStore
	fx          *testutil.Fixtures
	eng         *resourceengine.Engine
	engineering models.Department
	sales       models.Department
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.NewMemStore()
	fx := testutil.NewFixtures(t, store)
	e := &env{
		store:       store,
		fx:          fx,
		engineering: fx.CreateDepartment("Engineering", "ENG"),
		sales:       fx.CreateDepartment("Sales", "SAL"),
	}
	e.eng = resourceengine.New(store, store.Departments(), store, resourceengine.Config{}, zap.NewNop())
	e.eng.Now = func() time.Time { return testNow }
	return e
}

func admin() testutil.TestUser { return testutil.AdminUser() }

// xlsxFile builds a one-sheet workbook from rows.
func xlsxFile(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &cells); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// sheetRows reads every row of the first sheet of an xlsx document.
func sheetRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return rows
}

func header() []string {
	return []string{"Employee Code", "Full Name", "Department", "Position", "Email", "Skill Set", "Idle From", "Rate", "Status"}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

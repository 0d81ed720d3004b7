package resourceengine

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/idlehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// ImportRow is one data row after field-level validation. Department is
// still a name; resolving it needs storage.
type ImportRow struct {
	EmployeeCode string
	FullName     string
	Department   string
	Position     string
	Email        string
	SkillSet     string
	IdleFrom     time.Time
	Rate         *decimal.Decimal
	Status       models.ResourceStatus
}

var requiredColumns = []int{
	xlsxutil.ColEmployeeCode,
	xlsxutil.ColFullName,
	xlsxutil.ColDepartment,
	xlsxutil.ColPosition,
	xlsxutil.ColIdleFrom,
	xlsxutil.ColStatus,
}

// ParseImportRow checks the cells of one data row laid out as
// xlsxutil.ImportHeader. It needs no storage, so offline checks use it too.
// The returned error is a human-readable reason without a row prefix.
func ParseImportRow(cells []string) (ImportRow, error) {
	var missing []string
	for _, col := range requiredColumns {
		if xlsxutil.Cell(cells, col) == "" {
			missing = append(missing, xlsxutil.ImportHeader[col])
		}
	}
	if len(missing) > 0 {
		return ImportRow{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	row := ImportRow{
		EmployeeCode: xlsxutil.Cell(cells, xlsxutil.ColEmployeeCode),
		FullName:     htmlsanitize.PlainText(xlsxutil.Cell(cells, xlsxutil.ColFullName)),
		Department:   xlsxutil.Cell(cells, xlsxutil.ColDepartment),
		Position:     htmlsanitize.PlainText(xlsxutil.Cell(cells, xlsxutil.ColPosition)),
		Email:        xlsxutil.Cell(cells, xlsxutil.ColEmail),
		SkillSet:     htmlsanitize.PlainText(xlsxutil.Cell(cells, xlsxutil.ColSkillSet)),
	}
	if len(row.EmployeeCode) > 50 {
		return ImportRow{}, fmt.Errorf("Employee Code %q is longer than 50 characters", row.EmployeeCode)
	}
	if row.Email != "" && !isEmail(row.Email) {
		return ImportRow{}, fmt.Errorf("invalid email %q", row.Email)
	}

	idleFrom, err := xlsxutil.ParseDate(xlsxutil.Cell(cells, xlsxutil.ColIdleFrom))
	if err != nil {
		return ImportRow{}, fmt.Errorf("Idle From: %w", err)
	}
	row.IdleFrom = idleFrom

	if raw := xlsxutil.Cell(cells, xlsxutil.ColRate); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return ImportRow{}, fmt.Errorf("Rate %q is not a number", raw)
		}
		if rate.IsNegative() {
			return ImportRow{}, fmt.Errorf("Rate %q must not be negative", raw)
		}
		rate = rate.Round(2)
		row.Rate = &rate
	}

	raw := xlsxutil.Cell(cells, xlsxutil.ColStatus)
	status, ok := models.ParseStatus(raw)
	if !ok {
		labels := make([]string, len(models.Statuses))
		for i, s := range models.Statuses {
			labels[i] = s.Label()
		}
		return ImportRow{}, fmt.Errorf("invalid status %q; expected one of %s", raw, strings.Join(labels, ", "))
	}
	row.Status = status
	return row, nil
}

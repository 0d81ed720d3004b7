// internal/app/system/xlsxutil/template.go
package xlsxutil

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateOptions fill the example row and the instructions sheet.
type TemplateOptions struct {
	ExampleDepartment string
	Departments       []string
	Statuses          []string
}

// ExampleRow is the sample data row placed under the template header.
func ExampleRow(department string) []string {
	if department == "" {
		department = "Engineering"
	}
	return []string{
		"EMP001",
		"Nguyen Van A",
		department,
		"Senior Developer",
		"nguyen.van.a@company.com",
		"Java, Spring Boot, React",
		"2024-01-15",
		"50",
		"Idle",
	}
}

// WriteTemplate writes an import template: the import header with one
// example row, plus an instructions sheet.
func WriteTemplate(dst io.Writer, opts TemplateOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return err
	}
	hs, err := headerStyle(f)
	if err != nil {
		return err
	}

	header := toCells(ImportHeader)
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return err
	}
	example := toCells(ExampleRow(opts.ExampleDepartment))
	if err := f.SetSheetRow(DataSheet, "A2", &example); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(ImportHeader), 1)
	if err := f.SetCellStyle(DataSheet, "A1", last, hs); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ImportHeader))
	if err := f.SetColWidth(DataSheet, "A", lastCol, 20); err != nil {
		return err
	}

	if _, err := f.NewSheet(InstructionsSheet); err != nil {
		return err
	}
	lines := [][]string{
		{"Column", "Required", "Format"},
		{"Employee Code", "Yes", "Unique code, e.g. EMP001"},
		{"Full Name", "Yes", "Text"},
		{"Department", "Yes", "Exact department name: " + strings.Join(opts.Departments, ", ")},
		{"Position", "Yes", "Text"},
		{"Email", "No", "Valid email address"},
		{"Skill Set", "No", "Comma-separated skills"},
		{"Idle From", "Yes", "Date as YYYY-MM-DD"},
		{"Rate", "No", "Number, e.g. 50 or 42.5"},
		{"Status", "Yes", "One of: " + strings.Join(opts.Statuses, ", ")},
		{},
		{"Keep the header row unchanged. Delete the example row before importing."},
	}
	for i, l := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := toCells(l)
		if err := f.SetSheetRow(InstructionsSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(InstructionsSheet, "A1", "C1", hs); err != nil {
		return err
	}
	if err := f.SetColWidth(InstructionsSheet, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(InstructionsSheet, "C", "C", 60); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(dst)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

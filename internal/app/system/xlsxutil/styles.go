// internal/app/system/xlsxutil/styles.go
package xlsxutil

import "github.com/xuri/excelize/v2"

const (
	headerFill = "#4472C4"
	urgentFill = "#FFC7CE"
)

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
}

func urgentStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{urgentFill}, Pattern: 1},
		Border: thinBorder(),
	})
}

func bodyStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{Border: thinBorder()})
}

package resourceengine

import (
	"context"
	"fmt"
	"io"

	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
)

// TemplateFilename is the download name of the import template.
const TemplateFilename = "idle-resources-import-template.xlsx"

// Template writes an import template whose example row names the first
// active department.
func (e *Engine) Template(ctx context.Context, w io.Writer) error {
	deps, err := e.departments.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list departments: %w", err)
	}
	return xlsxutil.WriteTemplate(w, TemplateOptionsFor(deps))
}

// TemplateOptionsFor builds template options from a department list.
func TemplateOptionsFor(deps []models.Department) xlsxutil.TemplateOptions {
	opts := xlsxutil.TemplateOptions{}
	for _, d := range deps {
		opts.Departments = append(opts.Departments, d.Name)
	}
	if len(opts.Departments) > 0 {
		opts.ExampleDepartment = opts.Departments[0]
	}
	for _, s := range models.Statuses {
		opts.Statuses = append(opts.Statuses, s.Label())
	}
	return opts
}

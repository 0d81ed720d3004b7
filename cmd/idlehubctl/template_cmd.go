package main

import (
	"fmt"
	"os"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/dalemusser/idlehub/internal/app/system/xlsxutil"
	"github.com/dalemusser/idlehub/internal/domain/models"
	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var (
		out         string
		departments []string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the import template workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := xlsxutil.WriteTemplate(f, templateOptions(departments)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", resourceengine.TemplateFilename, "Output file")
	cmd.Flags().StringSliceVar(&departments, "department", nil, "Department name for the dropdown (repeatable); the first is used in the example row")
	return cmd
}

func templateOptions(names []string) xlsxutil.TemplateOptions {
	deps := make([]models.Department, 0, len(names))
	for _, n := range names {
		deps = append(deps, models.Department{Name: n, IsActive: true})
	}
	return resourceengine.TemplateOptionsFor(deps)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dalemusser/idlehub/internal/app/resourceengine"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var (
		maxRows int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate an import file without touching storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return err
			}

			eng := resourceengine.New(nil, nil, nil, resourceengine.Config{ImportMaxRows: maxRows}, nil)
			res, err := eng.Check(f, st.Size(), path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				for _, e := range res.Errors {
					fmt.Fprintln(w, e)
				}
				fmt.Fprintf(w, "%d rows: %d ok, %d with errors\n", res.TotalProcessed, res.SuccessCount, res.ErrorCount)
			}
			if res.ErrorCount > 0 {
				return fmt.Errorf("%d rows failed validation", res.ErrorCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Row limit (0 uses the server default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

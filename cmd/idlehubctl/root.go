package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "idlehubctl",
		Short:         "Offline tools for idle resource spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newTemplateCmd())
	cmd.AddCommand(newCheckCmd())
	return cmd
}

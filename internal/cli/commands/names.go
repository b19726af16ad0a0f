package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/routefold/internal/report"
)

// NewNamesCommand creates the names command.
func NewNamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "Show the export naming convention",
		Long: `List the export names that select a bucket and the name each one is
rewritten to. Names not listed go to the server bucket unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return report.Names(cmd.OutOrStdout(), cmdCtx.Format)
		},
	}
}

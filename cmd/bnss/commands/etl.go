package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newEtlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Parse the cached pages into JSONL datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			return c.app.ETL(cmd.Context(), asOf)
		},
	}
	cmd.Flags().String("as-of", "", "Version label (YYYY-MM-DD), defaults to today (UTC)")
	return cmd
}

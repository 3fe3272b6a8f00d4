package commands

import (
	"github.com/lexindex/bnss/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run fetch, etl and validate in sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			source, _ := cmd.Flags().GetString("source")

			return c.app.All(cmd.Context(), app.FetchOptions{
				AsOf:   asOf,
				Source: source,
			})
		},
	}
	cmd.Flags().String("as-of", "", "Version label (YYYY-MM-DD), defaults to today (UTC)")
	cmd.Flags().StringP("source", "s", "cytrain", "Portal preset to fetch")
	return cmd
}

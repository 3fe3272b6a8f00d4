package commands

import (
	"github.com/lexindex/bnss/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the portal pages into the versioned cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			source, _ := cmd.Flags().GetString("source")

			return c.app.Fetch(cmd.Context(), app.FetchOptions{
				AsOf:   asOf,
				Source: source,
			})
		},
	}
	cmd.Flags().String("as-of", "", "Version label (YYYY-MM-DD), defaults to today (UTC)")
	cmd.Flags().StringP("source", "s", "cytrain", "Portal preset to fetch")
	return cmd
}

package commands

import (
	"github.com/lexindex/bnss/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached pages and derived datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{}

			switch {
			case all:
				opts.Cache = true
				opts.Datasets = true
			case cache:
				opts.Cache = true
			default:
				// Default behavior: remove the derived datasets only
				opts.Datasets = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("cache", "c", false, "Remove the page cache and manifests")
	cmd.Flags().BoolP("all", "a", false, "Remove cache, manifests and datasets")

	return cmd
}

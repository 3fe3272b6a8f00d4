package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run integrity checks over the derived datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			return c.app.Validate(cmd.Context(), asOf)
		},
	}
	cmd.Flags().String("as-of", "", "Version label (YYYY-MM-DD), defaults to today (UTC)")
	return cmd
}

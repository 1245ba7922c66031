package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recomp/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [paths|globs...]",
		Short: "Print the dependency graph between units",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			affected, _ := cmd.Flags().GetString("affected")
			return c.app.Graph(cmd.Context(), args, app.GraphOptions{
				ProjectOptions: c.project(),
				Affected:       affected,
			})
		},
	}
	cmd.Flags().StringP("affected", "a", "", "Print the units a change to this file would invalidate")
	return cmd
}

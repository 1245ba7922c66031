package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recomp/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile affected units whenever sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.WatchOptions{ProjectOptions: c.project()}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			return c.app.Watch(cmd.Context(), opts)
		},
	}
}

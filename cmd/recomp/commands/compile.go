package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recomp/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [paths|globs...]",
		Short: "Compile units and report their dependencies",
		Long: "Compile the given unit files, directories or glob patterns. " +
			"Without arguments every unit of the project is compiled.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settle, _ := cmd.Flags().GetBool("settle")
			return c.app.Compile(cmd.Context(), args, app.CompileOptions{
				ProjectOptions: c.project(),
				Settle:         settle,
			})
		},
	}
	cmd.Flags().Bool("settle", true, "Recompile in dependency order so every reference is resolved")
	return cmd
}

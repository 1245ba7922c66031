// Package commands implements the CLI commands for recomp.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/recomp/internal/app"
	"go.trai.ch/recomp/internal/build"
)

// CLI represents the command line interface for recomp.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	verbose    bool
	jsonLog    bool
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(verbose, jsonLog bool)
	Compile(ctx context.Context, args []string, opts app.CompileOptions) error
	Graph(ctx context.Context, args []string, opts app.GraphOptions) error
	Watch(ctx context.Context, opts app.WatchOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "recomp",
		Short:         "Incremental component compiler for hot reload",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.ConfigureLogging(c.verbose, c.jsonLog)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to recomp.yaml (default: discovered from the working directory)")
	flags.BoolVar(&c.verbose, "verbose", false, "Log cache, dependency and timing details")
	flags.BoolVar(&c.jsonLog, "json-log", false, "Write logs as JSON")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) project() app.ProjectOptions {
	return app.ProjectOptions{ConfigPath: c.configPath}
}

// Package cli defines the devagent cobra commands. Commands parse flags,
// build a wire.Container for the invocation and delegate to its adapters.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/devagent/internal/ctxutil"
	"github.com/example/devagent/internal/logging"
	"github.com/example/devagent/internal/version"
	"github.com/example/devagent/internal/wire"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	workdir  string
	config   string
	logLevel string
	json     bool
}

// NewRootCmd builds the devagent command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:     "devagent",
		Short:   "Goal lifecycle tracking tied to git branches and GitHub issues",
		Version: version.String(),
		Long: `devagent tracks units of work (goals) through todo, in_progress, done
and archived. Starting a goal creates its feature branch; goals can be
imported from and reported back to GitHub issues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.workdir, "workdir", "C", "", "Repository working directory (default: current directory)")
	flags.StringVar(&opts.config, "config", "", "Config file (default: .devagent/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.json, "json", false, "Print results as JSON")

	root.AddCommand(initCmd(opts))
	root.AddCommand(doctorCmd(opts))
	root.AddCommand(goalCmd(opts))
	root.AddCommand(syncCmd(opts))
	root.AddCommand(configCmd(opts))
	root.AddCommand(versionCmd())

	return root
}

// resolveWorkdir returns the absolute working directory.
func (o *globalOptions) resolveWorkdir() (string, error) {
	dir := o.workdir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

// run builds a container for one command and closes it afterwards.
func (o *globalOptions) run(cmd *cobra.Command, fn func(ctx context.Context, c *wire.Container) error) error {
	workdir, err := o.resolveWorkdir()
	if err != nil {
		return err
	}

	ctx := ctxutil.WithActorID(cmd.Context(), ctxutil.ResolveActor())
	c, err := wire.New(ctx, wire.Options{
		Workdir:    workdir,
		ConfigPath: o.config,
		LogLevel:   o.logLevel,
		JSON:       o.json,
		Out:        cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer c.Close()

	ctx = logging.WithLogger(ctx, c.Logger)
	c.Logger.Debug("running command",
		append(logging.ContextFields(ctx), zap.String("command", cmd.CommandPath()))...)
	return fn(ctx, c)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

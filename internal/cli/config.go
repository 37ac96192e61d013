package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/devagent/internal/wire"
)

func configCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage repository settings",
		Long: `Read and change repository settings stored in the devagent database.

Examples:
  devagent config set branches.develop main
  devagent config set github.owner acme
  devagent config list`,
	}

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.ConfigAdapter().Get(ctx, args[0])
			})
		},
	}

	set := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.ConfigAdapter().Set(ctx, args[0], args[1])
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.ConfigAdapter().List(ctx)
			})
		},
	}

	unset := &cobra.Command{
		Use:   "unset [key]",
		Short: "Restore a setting's default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.ConfigAdapter().Unset(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(get, set, list, unset)
	return cmd
}

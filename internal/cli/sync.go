package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/devagent/internal/wire"
)

func syncCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize goals with GitHub issues",
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Import open Todo issues as goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().SyncPull(ctx)
			})
		},
	}

	push := &cobra.Command{
		Use:   "push [goal-id]",
		Short: "Update a goal's linked issue from its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().SyncPush(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(pull, push)
	return cmd
}

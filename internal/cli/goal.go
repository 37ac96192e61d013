package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/devagent/internal/adapters/cli"
	"github.com/example/devagent/internal/wire"
)

func goalCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
		Long:  "Create goals and move them through their lifecycle",
	}

	cmd.AddCommand(
		goalCreateCmd(opts),
		goalListCmd(opts),
		goalShowCmd(opts),
		goalUpdateCmd(opts),
		goalDeleteCmd(opts),
		goalTransitionCmd(opts, "start", "Start a todo goal and create its branch", (*cliadapter.GoalAdapter).Start),
		goalTransitionCmd(opts, "complete", "Mark an in-progress goal done", (*cliadapter.GoalAdapter).Complete),
		goalTransitionCmd(opts, "stop", "Return an in-progress goal to todo", (*cliadapter.GoalAdapter).Stop),
		goalTransitionCmd(opts, "archive", "Archive a goal", (*cliadapter.GoalAdapter).Archive),
		goalTransitionCmd(opts, "reopen", "Move a done or archived goal back to todo", (*cliadapter.GoalAdapter).Reopen),
		goalLinkCmd(opts),
		goalValidateCmd(opts),
		goalCurrentCmd(opts),
		goalHistoryCmd(opts),
		goalPushCmd(opts),
	)
	return cmd
}

func goalCreateCmd(opts *globalOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Create(ctx, args[0], description)
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Goal description")
	return cmd
}

func goalListCmd(opts *globalOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().List(ctx, status)
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (todo, in_progress, done, archived)")
	return cmd
}

func goalShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [goal-id]",
		Short: "Show goal details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Show(ctx, args[0])
			})
		},
	}
}

func goalUpdateCmd(opts *globalOptions) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "update [goal-id]",
		Short: "Update a goal's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var titlePtr, descPtr *string
			if cmd.Flags().Changed("title") {
				titlePtr = &title
			}
			if cmd.Flags().Changed("description") {
				descPtr = &description
			}
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Update(ctx, args[0], titlePtr, descPtr)
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func goalDeleteCmd(opts *globalOptions) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "delete [goal-id]",
		Short: "Delete a goal",
		Long:  "Delete a goal. Its history is kept and ends with a delete event unless --purge is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Delete(ctx, args[0], purge)
			})
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the goal's history")
	return cmd
}

// goalTransitionCmd builds a lifecycle command taking one goal id.
func goalTransitionCmd(opts *globalOptions, name, short string, fn func(a *cliadapter.GoalAdapter, ctx context.Context, goalID string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [goal-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return fn(c.GoalAdapter(), ctx, args[0])
			})
		},
	}
}

func goalLinkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link [goal-id] [issue-number]",
		Short: "Link a goal to a GitHub issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid issue number %q", args[1])
			}
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Link(ctx, args[0], number)
			})
		},
	}
}

func goalValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [goal-id]",
		Short: "Check goals against the validation rules",
		Long:  "Check one goal, or every goal when no id is given. Exits non-zero when a goal is invalid.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID := ""
			if len(args) == 1 {
				goalID = args[0]
			}
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Validate(ctx, goalID)
			})
		},
	}
}

func goalCurrentCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the goal for the checked-out branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Current(ctx)
			})
		},
	}
}

func goalHistoryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [goal-id]",
		Short: "Show a goal's change history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().History(ctx, args[0])
			})
		},
	}
}

func goalPushCmd(opts *globalOptions) *cobra.Command {
	var forceWithLease bool
	cmd := &cobra.Command{
		Use:   "push [goal-id]",
		Short: "Push an in-progress goal's branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.GoalAdapter().Push(ctx, args[0], forceWithLease)
			})
		},
	}
	cmd.Flags().BoolVar(&forceWithLease, "force-with-lease", false, "Force push if the remote has not moved")
	return cmd
}

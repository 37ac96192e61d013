package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/logging"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

func doctorCmd(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the repository, database and GitHub setup",
		Long: `Health check for devagent in the current repository.

Validates:
- The working directory is a git repository
- The configured base branch exists
- Every database migration is applied
- GitHub owner, repo and token are configured

Examples:
  devagent doctor              # Run full health check
  devagent doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				results := runChecks(ctx, c)

				if !quiet {
					printChecks(cmd, results)
				}
				for _, r := range results {
					if r.Status == "✗" {
						return fmt.Errorf("doctor found problems")
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only set the exit code")
	return cmd
}

func runChecks(ctx context.Context, c *wire.Container) []CheckResult {
	results := []CheckResult{
		checkRepository(ctx, c),
		checkBaseBranch(ctx, c),
		checkMigrations(ctx, c),
		checkTracker(ctx, c),
	}

	log := logging.FromContext(ctx)
	for _, r := range results {
		log.Debug("doctor check", zap.String("check", r.Name), zap.String("status", r.Status), zap.String("details", r.Details))
	}
	return results
}

func checkRepository(ctx context.Context, c *wire.Container) CheckResult {
	r := CheckResult{Name: "Git repository", Status: "✓"}
	if !c.VCS.IsRepository(ctx) {
		r.Status = "✗"
		r.Details = "Not a git repository. Run `git init` or pass --workdir."
		return r
	}
	clean, err := c.VCS.IsWorkingTreeClean(ctx)
	if err != nil {
		r.Status = "⚠"
		r.Details = fmt.Sprintf("Could not read working tree status: %v", err)
	} else if !clean {
		r.Status = "⚠"
		r.Details = "Working tree has uncommitted changes; goal start will refuse to run."
	}
	return r
}

func checkBaseBranch(ctx context.Context, c *wire.Container) CheckResult {
	r := CheckResult{Name: "Base branch", Status: "✓"}
	if !c.VCS.IsRepository(ctx) {
		r.Status = "⚠"
		r.Details = "Skipped: not a git repository."
		return r
	}
	name := setting(ctx, c, settings.BranchesDevelop)
	exists, err := c.VCS.BranchExists(ctx, name)
	switch {
	case err != nil:
		r.Status = "✗"
		r.Details = fmt.Sprintf("Could not check branch %s: %v", name, err)
	case !exists:
		r.Status = "✗"
		r.Details = fmt.Sprintf("Branch %s does not exist. Create it or run `devagent config set %s <branch>`.", name, settings.BranchesDevelop)
	}
	return r
}

func checkMigrations(ctx context.Context, c *wire.Container) CheckResult {
	r := CheckResult{Name: "Database", Status: "✓"}
	pending, err := db.PendingVersions(ctx, c.DB)
	switch {
	case err != nil:
		r.Status = "✗"
		r.Details = fmt.Sprintf("Could not read migrations: %v", err)
	case len(pending) > 0:
		r.Status = "✗"
		r.Details = fmt.Sprintf("Pending migrations: %s", strings.Join(pending, ", "))
	}
	return r
}

func checkTracker(ctx context.Context, c *wire.Container) CheckResult {
	r := CheckResult{Name: "GitHub", Status: "✓"}
	if c.Tracker != nil {
		return r
	}

	var missing []string
	for _, key := range []string{settings.GitHubOwner, settings.GitHubRepo} {
		if setting(ctx, c, key) == "" {
			missing = append(missing, key)
		}
	}
	if c.Config.GitHub.Token == "" {
		missing = append(missing, "token (GITHUB_TOKEN or github.token)")
	}
	r.Status = "⚠"
	r.Details = "Issue sync disabled. Missing: " + strings.Join(missing, ", ")
	return r
}

// setting returns the effective value of a repository setting.
func setting(ctx context.Context, c *wire.Container, key string) string {
	res := c.ConfigService.Get(ctx, key)
	if data, ok := res.Data.(primary.ConfigData); ok {
		return data.Entry.Value
	}
	return ""
}

func printChecks(cmd *cobra.Command, results []CheckResult) {
	out := cmd.OutOrStdout()

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Check", "Status"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Name, colorStatus(r.Status)})
	}
	tw.Render()

	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			fmt.Fprintf(out, "%s %s: %s\n", colorStatus(r.Status), r.Name, r.Details)
		}
	}
}

func colorStatus(status string) string {
	switch status {
	case "✓":
		return color.GreenString(status)
	case "⚠":
		return color.YellowString(status)
	default:
		return color.RedString(status)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/devagent/internal/config"
	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/wire"
)

// defaultDatabasePath is written to new config files relative to the workdir.
const defaultDatabasePath = config.StateDirName + "/devagent.db"

func initCmd(opts *globalOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize devagent in the current repository",
		Long: `Create the .devagent directory with a config file and a migrated database.

Examples:
  devagent init
  devagent init --seed     # also insert sample goals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir, err := opts.resolveWorkdir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if _, err := config.EnsureStateDir(workdir); err != nil {
				return err
			}

			path := opts.config
			if path == "" {
				path = config.DefaultPath(workdir)
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				cfg := &config.Config{
					Database: config.DatabaseConfig{Path: defaultDatabasePath},
					Log:      config.LogConfig{Level: "warn", Format: "console"},
					GitHub:   config.GitHubConfig{MaxRetries: 3},
				}
				if err := config.Save(path, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "  %s already exists\n", path)
			}

			return opts.run(cmd, func(ctx context.Context, c *wire.Container) error {
				fmt.Fprintf(out, "✓ Database ready at %s\n", c.Config.Database.Path)
				if !seed {
					return nil
				}
				if err := db.SeedFixtures(ctx, c.DB); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Fprintln(out, "✓ Inserted sample goals")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert sample goals")
	return cmd
}

// Package wire provides dependency injection for the devagent CLI.
// A Container is built once per command invocation and owns the database
// handle and logger for that invocation.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	cliadapter "github.com/example/devagent/internal/adapters/cli"
	gitadapter "github.com/example/devagent/internal/adapters/git"
	"github.com/example/devagent/internal/adapters/github"
	"github.com/example/devagent/internal/adapters/sqlite"
	"github.com/example/devagent/internal/app"
	"github.com/example/devagent/internal/config"
	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/logging"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// Options selects the working tree and overrides for one invocation.
type Options struct {
	Workdir    string
	ConfigPath string // Empty means .devagent/config.yaml
	LogLevel   string // Overrides the configured level when set
	JSON       bool
	Out        io.Writer // Defaults to stdout
}

// Container holds the services for one invocation.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sql.DB
	VCS    secondary.VersionControl

	// Tracker is nil when GitHub is not configured.
	Tracker secondary.IssueTracker

	GoalService   primary.GoalService
	ConfigService primary.ConfigService

	out    io.Writer
	asJSON bool
}

// New loads configuration, opens the database and wires every service.
func New(ctx context.Context, opts Options) (*Container, error) {
	cfg, err := config.Load(opts.Workdir, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	if _, err := config.EnsureStateDir(opts.Workdir); err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	goalRepo := sqlite.NewGoalRepository(database)
	eventRepo := sqlite.NewEventRepository(database)
	configRepo := sqlite.NewConfigRepository(database)
	transactor := sqlite.NewTransactor(database)
	logWriter := sqlite.NewLogWriterAdapter(eventRepo)
	vcs := gitadapter.New(opts.Workdir)

	tracker, err := newTracker(ctx, cfg, configRepo, log)
	if err != nil {
		database.Close()
		return nil, err
	}

	executor := app.NewEffectExecutor(vcs, goalRepo, logWriter, transactor, log)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      database,
		VCS:     vcs,
		Tracker: tracker,
		GoalService: app.NewGoalService(app.GoalServiceDeps{
			Goals:      goalRepo,
			Events:     eventRepo,
			LogWriter:  logWriter,
			Config:     configRepo,
			Transactor: transactor,
			VCS:        vcs,
			Tracker:    tracker,
			Executor:   executor,
			Logger:     log,
		}),
		ConfigService: app.NewConfigService(configRepo, log),
		out:           out,
		asJSON:        opts.JSON,
	}, nil
}

// newTracker builds the GitHub tracker from the stored owner and repo and
// the token from the config file or environment. A missing piece leaves
// the tracker nil.
func newTracker(ctx context.Context, cfg *config.Config, configRepo secondary.ConfigRepository, log *zap.Logger) (secondary.IssueTracker, error) {
	records, err := configRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	stored := make(map[string]string, len(records))
	for _, r := range records {
		stored[r.Key] = r.Value
	}
	values, err := settings.Resolve(stored)
	if err != nil {
		return nil, err
	}

	retries := cfg.GitHub.MaxRetries
	if retries == 0 {
		retries = -1 // a configured 0 disables retries; RetryConfig treats 0 as unset
	}

	tracker, err := github.New(ctx, github.Config{
		Owner:   values.String(settings.GitHubOwner),
		Repo:    values.String(settings.GitHubRepo),
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.BaseURL,
		Retry:   github.RetryConfig{MaxRetries: retries},
	}, log)
	if errors.Is(err, secondary.ErrTrackerNotConfigured) {
		log.Debug("github tracker not configured")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tracker, nil
}

// Close flushes the logger and closes the database.
func (c *Container) Close() error {
	logging.Sync(c.Logger)
	return c.DB.Close()
}

// GoalAdapter returns a new GoalAdapter writing to the container's output.
// Each call creates a new adapter (adapters are stateless translators).
func (c *Container) GoalAdapter() *cliadapter.GoalAdapter {
	return cliadapter.NewGoalAdapter(c.GoalService, c.out, c.asJSON)
}

// ConfigAdapter returns a new ConfigAdapter writing to the container's output.
func (c *Container) ConfigAdapter() *cliadapter.ConfigAdapter {
	return cliadapter.NewConfigAdapter(c.ConfigService, c.out, c.asJSON)
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration. Versions are date-stamped
// strings and are applied in slice order.
type Migration struct {
	Version string
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: "2024.06.01-001",
		Name:    "create_goals",
		Up:      createGoals,
	},
	{
		Version: "2024.06.01-002",
		Name:    "create_config_entries",
		Up:      createConfigEntries,
	},
	{
		Version: "2024.06.15-001",
		Name:    "create_goal_events",
		Up:      createGoalEvents,
	},
}

// Migrate applies every migration missing from the schema_migrations ledger,
// each in its own transaction, and returns the versions it applied.
// Running it again is a no-op.
func Migrate(ctx context.Context, database *sql.DB) ([]string, error) {
	_, err := database.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", MapBusy(err))
	}

	applied, err := AppliedVersions(ctx, database)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(ctx, database, m); err != nil {
			return ran, err
		}
		ran = append(ran, m.Version)
	}
	return ran, nil
}

func apply(ctx context.Context, database *sql.DB, m Migration) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %s: %w", m.Version, MapBusy(err))
	}

	if err := m.Up(ctx, tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %s (%s) failed: %w", m.Version, m.Name, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
		m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m.Version, err)
	}
	return nil
}

// AppliedVersions returns the set of migration versions in the ledger.
func AppliedVersions(ctx context.Context, database *sql.DB) (map[string]bool, error) {
	rows, err := database.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", MapBusy(err))
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", MapBusy(err))
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", MapBusy(err))
	}
	return applied, nil
}

// PendingVersions returns migrations that have not been applied, in order.
func PendingVersions(ctx context.Context, database *sql.DB) ([]string, error) {
	applied, err := AppliedVersions(ctx, database)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m.Version)
		}
	}
	return pending, nil
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// createGoals creates the goals table with its uniqueness constraints.
func createGoals(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE goals (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'in_progress', 'done', 'archived')),
			branch_name TEXT,
			external_issue_id INTEGER UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE UNIQUE INDEX idx_goals_title ON goals (lower(trim(title)))`,
		`CREATE INDEX idx_goals_status ON goals (status)`,
		`CREATE INDEX idx_goals_branch ON goals (branch_name)`,
	)
}

func createConfigEntries(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE config_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	)
}

// createGoalEvents adds the audit trail. There is no foreign key: delete
// events survive the goal they describe.
func createGoalEvents(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE goal_events (
			id TEXT PRIMARY KEY,
			goal_id TEXT NOT NULL,
			actor TEXT NOT NULL,
			action TEXT NOT NULL CHECK (action IN ('create', 'update', 'delete')),
			field TEXT,
			old_value TEXT,
			new_value TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_goal_events_goal ON goal_events (goal_id, created_at)`,
	)
}

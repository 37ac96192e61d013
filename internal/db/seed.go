package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with sample goals covering every
// status. Used by `devagent init --seed` and by tests.
func SeedFixtures(ctx context.Context, database *sql.DB) error {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ts := func(offset time.Duration) string {
		return base.Add(offset).Format("2006-01-02T15:04:05.000000Z")
	}

	goals := []struct {
		id, title, desc, status, branch string
		completed                       bool
	}{
		{"g-seed01", "Add login endpoint", "Acceptance criteria: POST /login returns a session token", "todo", "", false},
		{"g-seed02", "Implement password reset", "Send a reset link by email. Done when the link expires after 1h", "in_progress", "feature/g-seed02-implement-password-reset", false},
		{"g-seed03", "Fix crash on empty config", "The CLI panics when the config file is empty", "done", "", true},
		{"g-seed04", "Remove legacy importer", "", "archived", "", false},
	}

	for i, g := range goals {
		created := ts(time.Duration(i) * time.Hour)
		var branch, completed any
		if g.branch != "" {
			branch = g.branch
		}
		if g.completed {
			completed = ts(time.Duration(i)*time.Hour + 30*time.Minute)
		}
		if _, err := database.ExecContext(ctx,
			`INSERT INTO goals (id, title, description, status, branch_name, created_at, updated_at, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.id, g.title, g.desc, g.status, branch, created, created, completed,
		); err != nil {
			return fmt.Errorf("seed goals: %w", err)
		}
	}

	if _, err := database.ExecContext(ctx,
		"INSERT INTO config_entries (key, value, updated_at) VALUES (?, ?, ?)",
		"branches.develop", "develop", ts(0),
	); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}

	return nil
}

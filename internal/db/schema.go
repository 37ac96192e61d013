package db

// SchemaSQL is the complete schema after all migrations have run.
//
// This is the reference the migrations must converge on: TestSchemaMatchesMigrations
// builds one database from SchemaSQL and another from the migrations and
// compares their tables and columns. When adding a column or table:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//
// Timestamps are TEXT in a fixed-width UTC layout so lexical order matches
// chronological order.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'in_progress', 'done', 'archived')),
	branch_name TEXT,
	external_issue_id INTEGER UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	completed_at TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_goals_title ON goals (lower(trim(title)));
CREATE INDEX IF NOT EXISTS idx_goals_status ON goals (status);
CREATE INDEX IF NOT EXISTS idx_goals_branch ON goals (branch_name);

CREATE TABLE IF NOT EXISTS config_entries (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goal_events (
	id TEXT PRIMARY KEY,
	goal_id TEXT NOT NULL,
	actor TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('create', 'update', 'delete')),
	field TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goal_events_goal ON goal_events (goal_id, created_at);
`

// GetSchemaSQL returns the reference schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

// Package db opens the goal database and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// BusyTimeoutMillis bounds how long a statement waits on a lock held by
// another process before the driver reports SQLITE_BUSY.
const BusyTimeoutMillis = 5000

// DSN returns the go-sqlite3 connection string for a database path.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", path, BusyTimeoutMillis)
}

// Open opens the database at path, creating its directory when needed, and
// applies pending migrations. The pool is limited to one connection since
// the tool runs one operation at a time.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	if _, err := Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// OpenMemory opens a migrated in-memory database. Used by tests.
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if _, err := Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return database, nil
}

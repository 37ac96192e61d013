// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the single point where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// reference schema. Do not hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the reference schema.
// The pool is pinned to one connection so every query sees the same memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

var seedTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// newGoal returns a todo goal record created at seedTime plus offset minutes.
func newGoal(id, title string, offset int) *secondary.GoalRecord {
	created := seedTime.Add(time.Duration(offset) * time.Minute)
	return &secondary.GoalRecord{
		ID:        id,
		Title:     title,
		Status:    "todo",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()

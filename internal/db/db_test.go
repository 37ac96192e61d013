package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func tableColumns(t *testing.T, database *sql.DB) map[string][]string {
	t.Helper()
	rows, err := database.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'")
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		tables = append(tables, name)
	}
	rows.Close()

	out := make(map[string][]string)
	for _, table := range tables {
		cols, err := database.Query("SELECT name FROM pragma_table_info(?)", table)
		if err != nil {
			t.Fatalf("table_info(%s): %v", table, err)
		}
		for cols.Next() {
			var col string
			if err := cols.Scan(&col); err != nil {
				t.Fatalf("scan: %v", err)
			}
			out[table] = append(out[table], col)
		}
		cols.Close()
		sort.Strings(out[table])
	}
	return out
}

func TestSchemaMatchesMigrations(t *testing.T) {
	ctx := context.Background()

	migrated, err := OpenMemory(ctx)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer migrated.Close()

	reference, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reference.Close()
	reference.SetMaxOpenConns(1)
	if _, err := reference.Exec(GetSchemaSQL()); err != nil {
		t.Fatalf("apply SchemaSQL: %v", err)
	}

	got := tableColumns(t, migrated)
	want := tableColumns(t, reference)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("schema drift:\nmigrations: %v\nSchemaSQL:  %v", got, want)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	database, err := OpenMemory(ctx)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	ran, err := Migrate(ctx, database)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if len(ran) != 0 {
		t.Errorf("second Migrate applied %v, want nothing", ran)
	}

	applied, err := AppliedVersions(ctx, database)
	if err != nil {
		t.Fatalf("AppliedVersions: %v", err)
	}
	if len(applied) != len(migrations) {
		t.Errorf("ledger has %d versions, want %d", len(applied), len(migrations))
	}

	pending, err := PendingVersions(ctx, database)
	if err != nil {
		t.Fatalf("PendingVersions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %v, want none", pending)
	}
}

func TestOpen_CreatesFileAndDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "devagent.db")

	database, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	database.Close()

	// Reopening applies nothing new.
	database, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer database.Close()

	pending, err := PendingVersions(ctx, database)
	if err != nil {
		t.Fatalf("PendingVersions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after reopen = %v", pending)
	}
}

func TestSeedFixtures(t *testing.T) {
	ctx := context.Background()
	database, err := OpenMemory(ctx)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	if err := SeedFixtures(ctx, database); err != nil {
		t.Fatalf("SeedFixtures: %v", err)
	}

	var n int
	if err := database.QueryRow("SELECT COUNT(DISTINCT status) FROM goals").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("seeded %d distinct statuses, want 4", n)
	}
}

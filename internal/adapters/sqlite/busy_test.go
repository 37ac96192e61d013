package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/devagent/internal/adapters/sqlite"
	"github.com/example/devagent/internal/db"
	"github.com/example/devagent/internal/ports/secondary"
)

// lockedDB returns a migrated file database with a short busy timeout while
// a second handle holds an exclusive write transaction on the same file.
func lockedDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devagent.db")

	testDB, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=50")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	_, err = db.Migrate(ctx, testDB)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewGoalRepository(testDB).Create(ctx, newGoal("g-abc123", "Add login endpoint", 0)))

	holder, err := sql.Open("sqlite3", "file:"+path+"?_txlock=exclusive")
	require.NoError(t, err)
	t.Cleanup(func() { holder.Close() })

	tx, err := holder.BeginTx(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback() })
	_, err = tx.ExecContext(ctx,
		"INSERT INTO config_entries (key, value, updated_at) VALUES ('branches.develop', 'main', '2024-06-01T09:00:00.000000Z')")
	require.NoError(t, err)

	return testDB
}

func TestReads_LockedDatabaseReportsStorageBusy(t *testing.T) {
	testDB := lockedDB(t)
	goals := sqlite.NewGoalRepository(testDB)
	configs := sqlite.NewConfigRepository(testDB)
	events := sqlite.NewEventRepository(testDB)

	_, err := goals.GetByID(ctx, "g-abc123")
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "GetByID")

	_, err = goals.GetByBranch(ctx, "feature/g-abc123-add-login-endpoint")
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "GetByBranch")

	_, err = goals.GetByExternalIssueID(ctx, 7)
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "GetByExternalIssueID")

	_, err = goals.List(ctx, secondary.GoalFilters{})
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "List")

	_, err = configs.List(ctx)
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "config List")

	_, err = events.ListByGoal(ctx, "g-abc123")
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "ListByGoal")

	_, err = db.PendingVersions(ctx, testDB)
	assert.ErrorIs(t, err, secondary.ErrStorageBusy, "PendingVersions")
}

func TestWrites_LockedDatabaseReportsStorageBusy(t *testing.T) {
	testDB := lockedDB(t)

	err := sqlite.NewGoalRepository(testDB).Create(ctx, newGoal("g-def456", "Fix crash", 1))
	assert.ErrorIs(t, err, secondary.ErrStorageBusy)
}

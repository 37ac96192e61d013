// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// GoalRepository defines the secondary port for goal persistence.
type GoalRepository interface {
	// Create persists a new goal. Returns ErrDuplicateID on an id collision
	// and ErrConflict on a title or external issue collision.
	Create(ctx context.Context, goal *GoalRecord) error

	// GetByID retrieves a goal by its ID.
	GetByID(ctx context.Context, id string) (*GoalRecord, error)

	// Update applies a patch and refreshes updated_at.
	Update(ctx context.Context, id string, patch GoalPatch) error

	// Delete removes a goal from persistence.
	Delete(ctx context.Context, id string) error

	// List retrieves goals matching the given filters, newest first.
	List(ctx context.Context, filters GoalFilters) ([]*GoalRecord, error)

	// Count returns the number of goals with the given status, or all goals
	// when status is empty.
	Count(ctx context.Context, status string) (int, error)

	// GetByExternalIssueID retrieves the goal linked to an issue.
	GetByExternalIssueID(ctx context.Context, issueNumber int) (*GoalRecord, error)

	// GetByBranch retrieves the goal that owns a branch.
	GetByBranch(ctx context.Context, branch string) (*GoalRecord, error)
}

// GoalRecord represents a goal as stored in persistence.
type GoalRecord struct {
	ID              string
	Title           string
	Description     string
	Status          string
	BranchName      string // Empty means NULL
	ExternalIssueID int    // Zero means NULL
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// GoalPatch lists the fields to change. Nil fields are left untouched; a
// pointer to the zero value clears the column.
type GoalPatch struct {
	Title            *string
	Description      *string
	Status           *string
	BranchName       *string
	ExternalIssueID  *int
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// GoalFilters contains filter options for querying goals.
type GoalFilters struct {
	Status string
	Limit  int
}

// ConfigRepository defines the secondary port for key/value configuration.
type ConfigRepository interface {
	// Get retrieves a stored entry. Returns ErrNotFound when unset.
	Get(ctx context.Context, key string) (*ConfigRecord, error)

	// Set inserts or replaces an entry.
	Set(ctx context.Context, key, value string) error

	// List returns every stored entry ordered by key.
	List(ctx context.Context) ([]*ConfigRecord, error)

	// Delete removes an entry. Returns ErrNotFound when unset.
	Delete(ctx context.Context, key string) error
}

// ConfigRecord represents a configuration entry as stored in persistence.
type ConfigRecord struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Transactor runs a function inside a storage transaction. Repositories
// called with the context passed to fn join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package secondary

import (
	"context"
	"time"
)

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for a goal.
	LogCreate(ctx context.Context, goalID string) error

	// LogUpdate logs an update operation for a goal field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, goalID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for a goal.
	LogDelete(ctx context.Context, goalID string) error
}

// EventRepository defines the secondary port for reading audit events.
type EventRepository interface {
	// Create persists an event.
	Create(ctx context.Context, event *EventRecord) error

	// ListByGoal returns a goal's events, oldest first.
	ListByGoal(ctx context.Context, goalID string) ([]*EventRecord, error)

	// DeleteByGoal removes a goal's events.
	DeleteByGoal(ctx context.Context, goalID string) error
}

// EventRecord represents an audit event as stored in persistence.
type EventRecord struct {
	ID        string
	GoalID    string
	Actor     string
	Action    string // create, update, delete
	Field     string
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

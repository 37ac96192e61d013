package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/devagent/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists an event.
func (r *EventRepository) Create(ctx context.Context, event *secondary.EventRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO goal_events (id, goal_id, actor, action, field, old_value, new_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.GoalID, event.Actor, event.Action,
		nullString(event.Field), nullString(event.OldValue), nullString(event.NewValue),
		formatTime(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create goal event: %w", mapError(err))
	}
	return nil
}

// ListByGoal returns a goal's events, oldest first.
func (r *EventRepository) ListByGoal(ctx context.Context, goalID string) ([]*secondary.EventRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, goal_id, actor, action, field, old_value, new_value, created_at
		 FROM goal_events WHERE goal_id = ? ORDER BY created_at, rowid`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal events: %w", mapError(err))
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		var (
			field, oldValue, newValue sql.NullString
			createdAt                 string
		)
		e := &secondary.EventRecord{}
		if err := rows.Scan(&e.ID, &e.GoalID, &e.Actor, &e.Action, &field, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal event: %w", mapError(err))
		}
		e.Field = field.String
		e.OldValue = oldValue.String
		e.NewValue = newValue.String
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list goal events: %w", mapError(err))
	}
	return events, nil
}

// DeleteByGoal removes a goal's events.
func (r *EventRepository) DeleteByGoal(ctx context.Context, goalID string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM goal_events WHERE goal_id = ?", goalID); err != nil {
		return fmt.Errorf("failed to delete goal events: %w", mapError(err))
	}
	return nil
}

var _ secondary.EventRepository = (*EventRepository)(nil)

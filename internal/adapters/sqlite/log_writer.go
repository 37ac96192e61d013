package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/devagent/internal/ctxutil"
	"github.com/example/devagent/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using EventRepository.
type LogWriterAdapter struct {
	eventRepo secondary.EventRepository
	now       func() time.Time
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(eventRepo secondary.EventRepository) *LogWriterAdapter {
	return &LogWriterAdapter{eventRepo: eventRepo, now: time.Now}
}

// LogCreate logs a create operation for a goal.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, goalID string) error {
	return w.writeLog(ctx, goalID, "create", "", "", "")
}

// LogUpdate logs an update operation for a goal field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, goalID, fieldName, oldValue, newValue string) error {
	if oldValue == newValue {
		return nil
	}
	return w.writeLog(ctx, goalID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for a goal.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, goalID string) error {
	return w.writeLog(ctx, goalID, "delete", "", "", "")
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, goalID, action, fieldName, oldValue, newValue string) error {
	record := &secondary.EventRecord{
		ID:        uuid.NewString(),
		GoalID:    goalID,
		Actor:     ctxutil.ActorFromContext(ctx),
		Action:    action,
		Field:     fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: w.now(),
	}
	return w.eventRepo.Create(ctx, record)
}

var _ secondary.LogWriter = (*LogWriterAdapter)(nil)

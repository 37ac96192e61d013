// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/devagent/internal/core/effects"
	"github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place plan I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// Audited goal fields.
const (
	fieldStatus      = "status"
	fieldBranchName  = "branch_name"
	fieldCompletedAt = "completed_at"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldIssue       = "external_issue_id"
)

// DefaultEffectExecutor implements EffectExecutor against the version
// control and storage ports.
type DefaultEffectExecutor struct {
	vcs       secondary.VersionControl
	goalRepo  secondary.GoalRepository
	logWriter secondary.LogWriter
	tx        secondary.Transactor
	log       *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	vcs secondary.VersionControl,
	goalRepo secondary.GoalRepository,
	logWriter secondary.LogWriter,
	tx secondary.Transactor,
	log *zap.Logger,
) *DefaultEffectExecutor {
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultEffectExecutor{
		vcs:       vcs,
		goalRepo:  goalRepo,
		logWriter: logWriter,
		tx:        tx,
		log:       log,
	}
}

// Execute processes a slice of effects, executing each in sequence and
// stopping at the first failure. Effects already applied are not undone.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.GitEffect:
		return e.executeGit(ctx, typed)
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeGit(ctx context.Context, eff effects.GitEffect) error {
	e.log.Debug("git effect", zap.String("op", eff.Operation), zap.String("branch", eff.Branch))

	switch eff.Operation {
	case effects.GitCheckout:
		return e.vcs.Checkout(ctx, eff.Branch)
	case effects.GitCreateBranch:
		return e.vcs.CreateBranch(ctx, eff.Branch)
	case effects.GitPull:
		return e.vcs.Pull(ctx, eff.Remote, eff.Branch)
	case effects.GitPush:
		return e.vcs.Push(ctx, eff.Remote, eff.Branch, eff.ForceWithLease)
	default:
		return fmt.Errorf("unknown git operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case goal.EntityGoal:
		return e.executeGoalOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeGoalOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case goal.OperationTransition:
		change, ok := eff.Data.(goal.Change)
		if !ok {
			return fmt.Errorf("invalid goal transition data type: %T", eff.Data)
		}
		return e.applyChange(ctx, change)
	default:
		return fmt.Errorf("unknown goal operation: %s", eff.Operation)
	}
}

// applyChange writes a status transition and its audit events in one
// transaction. The stored status must still be the one the plan was built
// from; otherwise ErrConflict is returned and nothing is written.
func (e *DefaultEffectExecutor) applyChange(ctx context.Context, c goal.Change) error {
	return e.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := e.goalRepo.GetByID(ctx, c.GoalID)
		if err != nil {
			return fmt.Errorf("failed to load goal %s: %w", c.GoalID, err)
		}
		if current.Status != string(c.From) {
			return fmt.Errorf("%w: goal %s is %s, expected %s", secondary.ErrConflict, c.GoalID, current.Status, c.From)
		}

		status := string(c.To)
		patch := secondary.GoalPatch{
			Status:           &status,
			BranchName:       c.BranchName,
			CompletedAt:      c.CompletedAt,
			ClearCompletedAt: c.ClearCompletedAt,
		}
		if err := e.goalRepo.Update(ctx, c.GoalID, patch); err != nil {
			return fmt.Errorf("failed to update goal %s: %w", c.GoalID, err)
		}

		if err := e.logWriter.LogUpdate(ctx, c.GoalID, fieldStatus, current.Status, status); err != nil {
			return err
		}
		if c.BranchName != nil {
			if err := e.logWriter.LogUpdate(ctx, c.GoalID, fieldBranchName, current.BranchName, *c.BranchName); err != nil {
				return err
			}
		}
		switch {
		case c.CompletedAt != nil:
			return e.logWriter.LogUpdate(ctx, c.GoalID, fieldCompletedAt, formatEventTime(current.CompletedAt), formatEventTime(c.CompletedAt))
		case c.ClearCompletedAt:
			return e.logWriter.LogUpdate(ctx, c.GoalID, fieldCompletedAt, formatEventTime(current.CompletedAt), "")
		}
		return nil
	})
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.log.Debug(eff.Message, fields...)
	case "warn":
		e.log.Warn(eff.Message, fields...)
	case "error":
		e.log.Error(eff.Message, fields...)
	default:
		e.log.Info(eff.Message, fields...)
	}
}

func formatEventTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var _ EffectExecutor = (*DefaultEffectExecutor)(nil)

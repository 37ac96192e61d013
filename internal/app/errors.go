package app

import (
	"errors"

	"github.com/example/devagent/internal/core/id"
	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// ClassifyError maps an infrastructure or core error onto the result kind
// reported to callers. Unrecognised errors are treated as external failures.
func ClassifyError(err error) primary.ErrorKind {
	switch {
	case err == nil:
		return primary.KindNone
	case errors.Is(err, id.ErrInvalidID), errors.Is(err, id.ErrInvalidTypeTag):
		return primary.KindContract
	case errors.Is(err, secondary.ErrNotFound),
		errors.Is(err, secondary.ErrBranchNotFound),
		errors.Is(err, secondary.ErrMilestoneNotFound),
		errors.Is(err, settings.ErrUnknownKey):
		return primary.KindNotFound
	case errors.Is(err, secondary.ErrDuplicateID),
		errors.Is(err, secondary.ErrConflict),
		errors.Is(err, secondary.ErrBranchAlreadyExists):
		return primary.KindConflict
	case errors.Is(err, settings.ErrInvalidValue):
		return primary.KindValidation
	case errors.Is(err, secondary.ErrNotRepository),
		errors.Is(err, secondary.ErrTrackerNotConfigured),
		errors.Is(err, secondary.ErrPullRefused):
		return primary.KindPrecondition
	default:
		return primary.KindExternal
	}
}

// failure converts err into a failed result.
func failure(message string, err error) primary.CommandResult {
	return primary.Fail(ClassifyError(err), message, err)
}

// precondition builds a failed result for a rejected guard.
func precondition(reason string) primary.CommandResult {
	return primary.Fail(primary.KindPrecondition, reason, nil)
}

package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/devagent/internal/core/id"
	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want primary.ErrorKind
	}{
		{"nil", nil, primary.KindNone},
		{"invalid id", fmt.Errorf("check: %w", id.ErrInvalidID), primary.KindContract},
		{"not found", fmt.Errorf("goal g-abc123: %w", secondary.ErrNotFound), primary.KindNotFound},
		{"branch not found", secondary.ErrBranchNotFound, primary.KindNotFound},
		{"milestone not found", secondary.ErrMilestoneNotFound, primary.KindNotFound},
		{"unknown key", settings.ErrUnknownKey, primary.KindNotFound},
		{"duplicate id", secondary.ErrDuplicateID, primary.KindConflict},
		{"conflict", secondary.ErrConflict, primary.KindConflict},
		{"invalid value", settings.ErrInvalidValue, primary.KindValidation},
		{"not a repository", secondary.ErrNotRepository, primary.KindPrecondition},
		{"tracker not configured", secondary.ErrTrackerNotConfigured, primary.KindPrecondition},
		{"network", secondary.ErrNetwork, primary.KindExternal},
		{"busy", secondary.ErrStorageBusy, primary.KindExternal},
		{"merge conflict", secondary.ErrMergeConflict, primary.KindExternal},
		{"pull refused", secondary.ErrPullRefused, primary.KindPrecondition},
		{"unknown", errors.New("boom"), primary.KindExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

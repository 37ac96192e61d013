package goal

import "time"

// StatusTransitionResult captures the new status and the timestamp side
// effects that go with it.
type StatusTransitionResult struct {
	NewStatus        Status
	CompletedAt      *time.Time // Set when transitioning to done
	ClearCompletedAt bool       // Set when leaving done for todo
	ClearBranch      bool       // Set for every target except in_progress and done
}

// ApplyStatusTransition applies a status transition and returns the result.
// The caller passes the current time to keep this function pure.
func ApplyStatusTransition(from, to Status, now time.Time) StatusTransitionResult {
	result := StatusTransitionResult{NewStatus: to}

	if to == StatusDone && from != StatusDone {
		completed := now.UTC()
		result.CompletedAt = &completed
	}

	if to == StatusTodo && (from == StatusDone || from == StatusArchived) {
		result.ClearCompletedAt = true
	}

	if to == StatusTodo || to == StatusArchived {
		result.ClearBranch = true
	}

	return result
}

// InitialStatus returns the status every new goal starts in.
func InitialStatus() Status {
	return StatusTodo
}

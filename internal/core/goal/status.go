package goal

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a goal.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusArchived   Status = "archived"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusArchived}

// ParseStatus converts a stored or user-supplied string into a Status.
// Unrecognised values are rejected rather than defaulted.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", fmt.Errorf("unknown goal status %q (expected one of: todo, in_progress, done, archived)", s)
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// allowedTransitions is the goal state machine.
var allowedTransitions = map[Status][]Status{
	StatusTodo:       {StatusInProgress, StatusArchived},
	StatusInProgress: {StatusDone, StatusTodo, StatusArchived},
	StatusDone:       {StatusArchived, StatusTodo},
	StatusArchived:   {StatusTodo},
}

// CanTransition reports whether a goal may move from one status to another.
// Staying in the same status is not a transition and is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given status.
func NextStatuses(from Status) []Status {
	next := allowedTransitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

package goal

import "strings"

// Milestone titles used as status proxies on the issue tracker.
const (
	MilestoneTodo       = "Todo"
	MilestoneInProgress = "In Progress"
	MilestoneDone       = "Done"
)

// IssueState is the open/closed state of an external issue.
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// MilestoneForStatus maps a goal status to the tracker milestone title.
// done and archived both map to "Done"; the tracker cannot tell them apart.
func MilestoneForStatus(s Status) string {
	switch s {
	case StatusInProgress:
		return MilestoneInProgress
	case StatusDone, StatusArchived:
		return MilestoneDone
	default:
		return MilestoneTodo
	}
}

// IssueStateForStatus maps a goal status to the tracker issue state.
func IssueStateForStatus(s Status) IssueState {
	if s == StatusDone || s == StatusArchived {
		return IssueClosed
	}
	return IssueOpen
}

// IsTodoMilestone reports whether a milestone title marks the intake queue.
func IsTodoMilestone(title string) bool {
	return strings.EqualFold(strings.TrimSpace(title), MilestoneTodo)
}

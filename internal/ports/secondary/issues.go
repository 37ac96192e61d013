package secondary

import (
	"context"
	"time"
)

// IssueTracker defines the secondary port for the external issue tracker.
// Implementations own retry and backoff.
type IssueTracker interface {
	// FetchOpenTodoIssues returns open issues whose open milestone is titled
	// "Todo" (case-insensitive). Pull requests are excluded.
	FetchOpenTodoIssues(ctx context.Context) ([]*Issue, error)

	// FetchMilestones returns milestones in the given state (open, closed, all).
	FetchMilestones(ctx context.Context, state string) ([]*Milestone, error)

	// UpdateIssueMilestone assigns the milestone with the given title.
	// Returns ErrMilestoneNotFound when no milestone has that title.
	UpdateIssueMilestone(ctx context.Context, issueNumber int, milestoneTitle string) error

	// UpdateIssueState opens or closes an issue.
	UpdateIssueState(ctx context.Context, issueNumber int, state string) error
}

// Issue represents a tracker issue.
type Issue struct {
	Number    int
	Title     string
	Body      string
	State     string
	Milestone *Milestone
	Labels    []string
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Milestone represents a tracker milestone.
type Milestone struct {
	Number int
	Title  string
	State  string
}

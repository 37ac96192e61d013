// Package issuesync plans how tracker issues map onto goals.
// This is part of the Functional Core - no I/O, only pure functions.
package issuesync

import (
	"strings"

	"github.com/example/devagent/internal/core/goal"
)

// Issue is the subset of a tracker issue that sync reads.
type Issue struct {
	Number int
	Title  string
	Body   string
}

// Action is what sync does with one issue.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
)

// Plan describes the change for one issue.
// All values are derived from pre-fetched state.
type Plan struct {
	IssueNumber int
	Action      Action
	GoalID      string // Empty for ActionCreate
	Title       string
	Description string
}

// PlanIssue decides whether an issue creates a goal, updates the linked
// goal, or leaves it alone. existing is the goal linked to the issue, if any.
func PlanIssue(issue Issue, existing *goal.Goal) Plan {
	plan := Plan{
		IssueNumber: issue.Number,
		Title:       strings.TrimSpace(issue.Title),
		Description: strings.TrimSpace(issue.Body),
	}

	if existing == nil {
		plan.Action = ActionCreate
		return plan
	}

	plan.GoalID = existing.ID
	if existing.Title == plan.Title && existing.Description == plan.Description {
		plan.Action = ActionUnchanged
		return plan
	}
	plan.Action = ActionUpdate
	return plan
}

// Candidate returns the goal a plan would produce, for validation.
func (p Plan) Candidate(existing *goal.Goal) goal.Goal {
	if existing == nil {
		return goal.Goal{
			ID:              p.GoalID,
			Title:           p.Title,
			Description:     p.Description,
			Status:          goal.InitialStatus(),
			ExternalIssueID: p.IssueNumber,
		}
	}
	g := *existing
	g.Title = p.Title
	g.Description = p.Description
	return g
}

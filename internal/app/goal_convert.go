package app

import (
	"fmt"

	"github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/core/validation"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// recordToGoal converts a stored record into the core view. A status
// outside the closed set is an error, never a default.
func recordToGoal(r *secondary.GoalRecord) (goal.Goal, error) {
	status, err := goal.ParseStatus(r.Status)
	if err != nil {
		return goal.Goal{}, fmt.Errorf("goal %s: %w", r.ID, err)
	}
	return goal.Goal{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Status:          status,
		BranchName:      r.BranchName,
		ExternalIssueID: r.ExternalIssueID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		CompletedAt:     r.CompletedAt,
	}, nil
}

func recordsToGoals(records []*secondary.GoalRecord) ([]goal.Goal, error) {
	goals := make([]goal.Goal, 0, len(records))
	for _, r := range records {
		g, err := recordToGoal(r)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func goalToPort(g goal.Goal) *primary.Goal {
	return &primary.Goal{
		ID:              g.ID,
		Title:           g.Title,
		Description:     g.Description,
		Status:          string(g.Status),
		BranchName:      g.BranchName,
		ExternalIssueID: g.ExternalIssueID,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		CompletedAt:     g.CompletedAt,
	}
}

func eventToPort(r *secondary.EventRecord) *primary.GoalEvent {
	return &primary.GoalEvent{
		ID:        r.ID,
		GoalID:    r.GoalID,
		Actor:     r.Actor,
		Action:    r.Action,
		Field:     r.Field,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		CreatedAt: r.CreatedAt,
	}
}

func resultToFinding(r validation.Result) primary.Finding {
	return primary.Finding{
		Rule:       r.Rule,
		Valid:      r.Valid,
		Severity:   string(r.Severity),
		Message:    r.Message,
		Suggestion: r.Suggestion,
	}
}

// warningsOf returns the failed findings below error severity.
func warningsOf(report validation.Report) []primary.Finding {
	var out []primary.Finding
	for _, r := range report.Results {
		if !r.Valid && r.Severity != validation.SeverityError {
			out = append(out, resultToFinding(r))
		}
	}
	return out
}

func reportToPort(report validation.Report) primary.ValidationReport {
	findings := make([]primary.Finding, len(report.Results))
	for i, r := range report.Results {
		findings[i] = resultToFinding(r)
	}
	return primary.ValidationReport{
		GoalID:   report.GoalID,
		Valid:    report.Valid(),
		Findings: findings,
	}
}

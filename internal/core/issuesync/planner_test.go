package issuesync

import (
	"errors"
	"testing"

	"github.com/example/devagent/internal/core/goal"
)

func TestPlanIssue(t *testing.T) {
	existing := &goal.Goal{ID: "g-abc123", Title: "Add login", Description: "Login form", Status: goal.StatusInProgress, ExternalIssueID: 7}

	tests := []struct {
		name       string
		issue      Issue
		existing   *goal.Goal
		wantAction Action
		wantGoalID string
	}{
		{"new issue", Issue{Number: 7, Title: "Add login", Body: "Login form"}, nil, ActionCreate, ""},
		{"same content", Issue{Number: 7, Title: "Add login", Body: "Login form"}, existing, ActionUnchanged, "g-abc123"},
		{"whitespace only", Issue{Number: 7, Title: " Add login\n", Body: "Login form  "}, existing, ActionUnchanged, "g-abc123"},
		{"title changed", Issue{Number: 7, Title: "Add login page", Body: "Login form"}, existing, ActionUpdate, "g-abc123"},
		{"body changed", Issue{Number: 7, Title: "Add login", Body: "Login form with SSO"}, existing, ActionUpdate, "g-abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanIssue(tt.issue, tt.existing)
			if plan.Action != tt.wantAction {
				t.Errorf("Action = %s, want %s", plan.Action, tt.wantAction)
			}
			if plan.GoalID != tt.wantGoalID {
				t.Errorf("GoalID = %q, want %q", plan.GoalID, tt.wantGoalID)
			}
			if plan.IssueNumber != tt.issue.Number {
				t.Errorf("IssueNumber = %d, want %d", plan.IssueNumber, tt.issue.Number)
			}
		})
	}
}

func TestPlan_Candidate(t *testing.T) {
	plan := PlanIssue(Issue{Number: 9, Title: "Fix crash", Body: "Steps"}, nil)
	c := plan.Candidate(nil)
	if c.Status != goal.StatusTodo || c.ExternalIssueID != 9 || c.Title != "Fix crash" {
		t.Errorf("unexpected create candidate: %+v", c)
	}

	existing := &goal.Goal{ID: "g-abc123", Title: "Old", Status: goal.StatusInProgress, BranchName: "feature/x", ExternalIssueID: 9}
	plan = PlanIssue(Issue{Number: 9, Title: "New", Body: "Body"}, existing)
	c = plan.Candidate(existing)
	if c.Status != goal.StatusInProgress || c.BranchName != "feature/x" || c.Title != "New" {
		t.Errorf("update candidate lost fields: %+v", c)
	}
	if existing.Title != "Old" {
		t.Error("Candidate mutated the existing goal")
	}
}

func TestFold_IsolatesFailures(t *testing.T) {
	issues := []Issue{{Number: 1}, {Number: 2}, {Number: 3}}
	boom := errors.New("network down")

	out := Fold(issues, func(i Issue) (Success, error) {
		switch i.Number {
		case 2:
			return Success{}, boom
		case 3:
			return Success{GoalID: "g-3", Action: ActionUpdate}, nil
		default:
			return Success{GoalID: "g-1", Action: ActionCreate}, nil
		}
	})

	if len(out.Successes) != 2 || len(out.Failures) != 1 {
		t.Fatalf("got %d successes / %d failures, want 2 / 1", len(out.Successes), len(out.Failures))
	}
	if out.Failures[0].IssueNumber != 2 || !errors.Is(out.Failures[0].Err, boom) {
		t.Errorf("unexpected failure: %+v", out.Failures[0])
	}
	if out.Count(ActionCreate) != 1 || out.Count(ActionUpdate) != 1 {
		t.Errorf("counts create=%d update=%d, want 1/1", out.Count(ActionCreate), out.Count(ActionUpdate))
	}
	if out.Successes[1].IssueNumber != 3 {
		t.Errorf("success issue number = %d, want 3", out.Successes[1].IssueNumber)
	}
}

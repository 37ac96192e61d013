package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/core/issuesync"
	"github.com/example/devagent/internal/core/validation"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// SyncFromIssueTracker imports open Todo-milestone issues. Each issue is
// processed independently; failures are itemized and never stop the run.
func (s *GoalServiceImpl) SyncFromIssueTracker(ctx context.Context) primary.CommandResult {
	if s.tracker == nil {
		return failure("cannot sync from issue tracker", secondary.ErrTrackerNotConfigured)
	}
	values, err := s.settings(ctx)
	if err != nil {
		return failure("failed to read configuration", err)
	}
	vctx, err := s.validationContext(ctx, values)
	if err != nil {
		return failure("failed to read goals", err)
	}

	fetched, err := s.tracker.FetchOpenTodoIssues(ctx)
	if err != nil {
		return failure("failed to fetch issues", err)
	}
	issues := make([]issuesync.Issue, len(fetched))
	for i, is := range fetched {
		issues[i] = issuesync.Issue{Number: is.Number, Title: is.Title, Body: is.Body}
	}

	outcome := issuesync.Fold(issues, func(issue issuesync.Issue) (issuesync.Success, error) {
		return s.syncIssue(ctx, &vctx, issue)
	})

	data := primary.SyncFromTrackerData{
		CreatedCount:   outcome.Count(issuesync.ActionCreate),
		UpdatedCount:   outcome.Count(issuesync.ActionUpdate),
		UnchangedCount: outcome.Count(issuesync.ActionUnchanged),
		Errors:         make([]primary.SyncError, 0, len(outcome.Failures)),
	}
	for _, f := range outcome.Failures {
		s.log.Warn("issue sync failed", zap.Int("issue", f.IssueNumber), zap.Error(f.Err))
		data.Errors = append(data.Errors, primary.SyncError{IssueNumber: f.IssueNumber, Message: f.Err.Error()})
	}

	message := fmt.Sprintf("Synced %d issue(s): %d created, %d updated, %d unchanged, %d failed",
		len(issues), data.CreatedCount, data.UpdatedCount, data.UnchangedCount, len(data.Errors))
	return primary.Ok(message, data)
}

// syncIssue applies one issue. vctx.AllGoals is kept current so later
// issues are validated against goals created earlier in the same run.
func (s *GoalServiceImpl) syncIssue(ctx context.Context, vctx *validation.Context, issue issuesync.Issue) (issuesync.Success, error) {
	var existing *goal.Goal
	record, err := s.goalRepo.GetByExternalIssueID(ctx, issue.Number)
	switch {
	case err == nil:
		g, err := recordToGoal(record)
		if err != nil {
			return issuesync.Success{}, err
		}
		existing = &g
	case !errors.Is(err, secondary.ErrNotFound):
		return issuesync.Success{}, fmt.Errorf("failed to look up goal: %w", err)
	}

	plan := issuesync.PlanIssue(issue, existing)
	if plan.Action == issuesync.ActionUnchanged {
		return issuesync.Success{GoalID: plan.GoalID, Action: plan.Action}, nil
	}

	candidate := plan.Candidate(existing)
	if existing == nil {
		if candidate.ID, err = s.newID(); err != nil {
			return issuesync.Success{}, err
		}
		candidate.CreatedAt = s.now()
		candidate.UpdatedAt = candidate.CreatedAt
	}

	report := validation.Validate(validation.Candidate{Goal: candidate, Previous: existing}, *vctx)
	var before *validation.Report
	if existing != nil {
		r := validation.Validate(validation.Candidate{Goal: *existing, Previous: existing}, *vctx)
		before = &r
	}
	if errs := introducedErrors(before, report); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, r := range errs {
			msgs[i] = r.Message
		}
		return issuesync.Success{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	if existing == nil {
		if err := s.createRecord(ctx, &candidate); err != nil {
			return issuesync.Success{}, err
		}
		vctx.AllGoals = append(vctx.AllGoals, candidate)
		return issuesync.Success{GoalID: candidate.ID, Action: issuesync.ActionCreate}, nil
	}

	if err := s.updateFields(ctx, *existing, candidate); err != nil {
		return issuesync.Success{}, err
	}
	for i := range vctx.AllGoals {
		if vctx.AllGoals[i].ID == candidate.ID {
			vctx.AllGoals[i] = candidate
		}
	}
	return issuesync.Success{GoalID: candidate.ID, Action: issuesync.ActionUpdate}, nil
}

// SyncGoalToIssueTracker pushes a goal's status to its linked issue as a
// milestone and an open/closed state. Unlinked goals are skipped.
func (s *GoalServiceImpl) SyncGoalToIssueTracker(ctx context.Context, goalID string) primary.CommandResult {
	values, err := s.settings(ctx)
	if err != nil {
		return failure("failed to read configuration", err)
	}
	g, err := s.load(ctx, values, goalID)
	if err != nil {
		return failure(fmt.Sprintf("cannot load goal %s", goalID), err)
	}

	if !g.IsLinked() {
		return primary.Ok(fmt.Sprintf("Goal %s is not linked to an issue", g.ID), primary.SyncToTrackerData{GoalID: g.ID, Skipped: true})
	}

	data, err := s.pushToTracker(ctx, g)
	if err != nil {
		return failure(fmt.Sprintf("failed to update issue #%d", g.ExternalIssueID), err)
	}
	return primary.Ok(fmt.Sprintf("Issue #%d moved to %s (%s)", data.IssueNumber, data.Milestone, data.State), data)
}

func (s *GoalServiceImpl) pushToTracker(ctx context.Context, g goal.Goal) (primary.SyncToTrackerData, error) {
	if s.tracker == nil {
		return primary.SyncToTrackerData{}, secondary.ErrTrackerNotConfigured
	}
	milestone := goal.MilestoneForStatus(g.Status)
	state := string(goal.IssueStateForStatus(g.Status))

	if err := s.tracker.UpdateIssueMilestone(ctx, g.ExternalIssueID, milestone); err != nil {
		return primary.SyncToTrackerData{}, err
	}
	if err := s.tracker.UpdateIssueState(ctx, g.ExternalIssueID, state); err != nil {
		return primary.SyncToTrackerData{}, err
	}
	s.log.Debug("issue updated", zap.String("goal_id", g.ID), zap.Int("issue", g.ExternalIssueID), zap.String("milestone", milestone))

	return primary.SyncToTrackerData{
		GoalID:      g.ID,
		IssueNumber: g.ExternalIssueID,
		Milestone:   milestone,
		State:       state,
	}, nil
}

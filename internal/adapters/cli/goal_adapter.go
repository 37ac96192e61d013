package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/example/devagent/internal/ports/primary"
)

// GoalAdapter is a thin adapter that translates CLI operations to GoalService calls.
// It depends only on the GoalService interface, enabling easy testing with mocks.
type GoalAdapter struct {
	service primary.GoalService
	p       printer
}

// NewGoalAdapter creates a new GoalAdapter. asJSON switches every command
// to JSON output.
func NewGoalAdapter(service primary.GoalService, out io.Writer, asJSON bool) *GoalAdapter {
	return &GoalAdapter{service: service, p: printer{out: out, json: asJSON}}
}

// Create creates a new goal.
func (a *GoalAdapter) Create(ctx context.Context, title, description string) error {
	r := a.service.Create(ctx, primary.CreateGoalRequest{Title: title, Description: description})
	return a.p.emit(r, func() {
		if data, ok := r.Data.(primary.CreateGoalData); ok {
			a.p.findings(data.Warnings)
		}
	})
}

// Show displays a single goal.
func (a *GoalAdapter) Show(ctx context.Context, goalID string) error {
	r := a.service.Get(ctx, goalID)
	return a.p.emit(r, func() { a.goalData(r) })
}

// List lists goals with an optional status filter.
func (a *GoalAdapter) List(ctx context.Context, status string) error {
	r := a.service.List(ctx, primary.GoalFilters{Status: status})
	return a.p.emit(r, func() {
		data, ok := r.Data.(primary.ListGoalsData)
		if !ok {
			return
		}
		if len(data.Goals) > 0 {
			tw := a.p.table()
			tw.AppendHeader(table.Row{"ID", "Status", "Title", "Branch", "Issue"})
			for _, g := range data.Goals {
				issue := ""
				if g.ExternalIssueID != 0 {
					issue = fmt.Sprintf("#%d", g.ExternalIssueID)
				}
				tw.AppendRow(table.Row{g.ID, g.Status, g.Title, g.BranchName, issue})
			}
			tw.Render()
		}
		c := data.Counts
		fmt.Fprintf(a.p.out, "todo: %d  in_progress: %d  done: %d  archived: %d  total: %d\n",
			c.Todo, c.InProgress, c.Done, c.Archived, c.Total())
	})
}

// Update changes a goal's title and/or description. Empty values are left unchanged.
func (a *GoalAdapter) Update(ctx context.Context, goalID string, title, description *string) error {
	r := a.service.Update(ctx, primary.UpdateGoalRequest{GoalID: goalID, Title: title, Description: description})
	return a.p.emit(r, func() { a.goalData(r) })
}

// Delete removes a goal.
func (a *GoalAdapter) Delete(ctx context.Context, goalID string, purge bool) error {
	return a.p.emit(a.service.Delete(ctx, goalID, purge), nil)
}

// Start starts work on a goal.
func (a *GoalAdapter) Start(ctx context.Context, goalID string) error {
	return a.lifecycle(a.service.Start(ctx, goalID))
}

// Complete marks a goal done.
func (a *GoalAdapter) Complete(ctx context.Context, goalID string) error {
	return a.lifecycle(a.service.Complete(ctx, goalID))
}

// Stop returns a goal to todo.
func (a *GoalAdapter) Stop(ctx context.Context, goalID string) error {
	return a.lifecycle(a.service.Stop(ctx, goalID))
}

// Archive archives a goal.
func (a *GoalAdapter) Archive(ctx context.Context, goalID string) error {
	return a.lifecycle(a.service.Archive(ctx, goalID))
}

// Reopen moves a goal back to todo.
func (a *GoalAdapter) Reopen(ctx context.Context, goalID string) error {
	return a.lifecycle(a.service.Reopen(ctx, goalID))
}

// Link attaches an issue number to a goal.
func (a *GoalAdapter) Link(ctx context.Context, goalID string, issueNumber int) error {
	r := a.service.LinkIssue(ctx, goalID, issueNumber)
	return a.p.emit(r, func() { a.goalData(r) })
}

// Validate prints validation reports. It fails when any report is invalid.
func (a *GoalAdapter) Validate(ctx context.Context, goalID string) error {
	r := a.service.Validate(ctx, goalID)
	data, _ := r.Data.(primary.ValidationData)
	if err := a.p.emit(r, func() { a.p.validation(data) }); err != nil {
		return err
	}
	for _, report := range data.Reports {
		if !report.Valid {
			return fmt.Errorf("validation failed for %s", report.GoalID)
		}
	}
	return nil
}

// Current shows the goal on the checked-out branch.
func (a *GoalAdapter) Current(ctx context.Context) error {
	r := a.service.Current(ctx)
	return a.p.emit(r, func() {
		data, ok := r.Data.(primary.CurrentGoalData)
		if !ok {
			return
		}
		fmt.Fprintf(a.p.out, "Branch:  %s (ahead %d, behind %d)\n", data.Branch, data.Ahead, data.Behind)
		if len(data.ChangedFiles) > 0 {
			fmt.Fprintf(a.p.out, "Changed: %d file(s)\n", len(data.ChangedFiles))
			for _, f := range data.ChangedFiles {
				fmt.Fprintf(a.p.out, "  %s\n", f)
			}
		}
		a.p.goal(data.Goal)
	})
}

// History prints a goal's audit events.
func (a *GoalAdapter) History(ctx context.Context, goalID string) error {
	r := a.service.History(ctx, goalID)
	return a.p.emit(r, func() {
		data, ok := r.Data.(primary.HistoryData)
		if !ok || len(data.Events) == 0 {
			return
		}
		tw := a.p.table()
		tw.AppendHeader(table.Row{"When", "Actor", "Action", "Field", "Old", "New"})
		for _, e := range data.Events {
			tw.AppendRow(table.Row{formatTime(e.CreatedAt), e.Actor, e.Action, e.Field, e.OldValue, e.NewValue})
		}
		tw.Render()
	})
}

// Push publishes a goal's branch.
func (a *GoalAdapter) Push(ctx context.Context, goalID string, forceWithLease bool) error {
	return a.p.emit(a.service.Push(ctx, goalID, forceWithLease), nil)
}

// SyncPull imports issues from the tracker. Itemized failures are printed
// and make the command fail after the successful issues are kept.
func (a *GoalAdapter) SyncPull(ctx context.Context) error {
	r := a.service.SyncFromIssueTracker(ctx)
	data, _ := r.Data.(primary.SyncFromTrackerData)
	err := a.p.emit(r, func() {
		for _, e := range data.Errors {
			fmt.Fprintf(a.p.out, "  %s issue #%d: %s\n", failMark(), e.IssueNumber, e.Message)
		}
	})
	if err != nil {
		return err
	}
	if len(data.Errors) > 0 {
		return fmt.Errorf("%d issue(s) failed to sync", len(data.Errors))
	}
	return nil
}

// SyncPush pushes a goal's status to its linked issue.
func (a *GoalAdapter) SyncPush(ctx context.Context, goalID string) error {
	return a.p.emit(a.service.SyncGoalToIssueTracker(ctx, goalID), nil)
}

func (a *GoalAdapter) lifecycle(r primary.CommandResult) error {
	return a.p.emit(r, func() { a.goalData(r) })
}

func (a *GoalAdapter) goalData(r primary.CommandResult) {
	data, ok := r.Data.(primary.GoalData)
	if !ok {
		return
	}
	a.p.findings(data.Warnings)
	if data.SyncWarning != "" {
		fmt.Fprintf(a.p.out, "  %s %s\n", warnMark(), data.SyncWarning)
	}
	a.p.goal(data.Goal)
}

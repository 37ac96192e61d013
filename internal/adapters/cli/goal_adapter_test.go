package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/devagent/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// mockGoalService implements primary.GoalService for testing
type mockGoalService struct {
	createFn   func(ctx context.Context, req primary.CreateGoalRequest) primary.CommandResult
	listFn     func(ctx context.Context, filters primary.GoalFilters) primary.CommandResult
	lifecycle  primary.CommandResult
	validateFn func(ctx context.Context, goalID string) primary.CommandResult
	historyFn  func(ctx context.Context, goalID string) primary.CommandResult
	syncFn     func(ctx context.Context) primary.CommandResult

	// Track calls for verification
	lastCreateReq primary.CreateGoalRequest
	lastUpdateReq primary.UpdateGoalRequest
	lastFilters   primary.GoalFilters
	lastPurge     bool
	lastForce     bool
}

func (m *mockGoalService) Create(ctx context.Context, req primary.CreateGoalRequest) primary.CommandResult {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	goal := &primary.Goal{ID: "g-abc123", Title: req.Title, Status: "todo"}
	return primary.Ok("Created goal g-abc123", primary.CreateGoalData{GoalID: goal.ID, Goal: goal})
}

func (m *mockGoalService) Get(ctx context.Context, goalID string) primary.CommandResult {
	return primary.Ok("Goal "+goalID, primary.GoalData{Goal: &primary.Goal{ID: goalID, Title: "Test Goal", Status: "todo"}})
}

func (m *mockGoalService) Update(ctx context.Context, req primary.UpdateGoalRequest) primary.CommandResult {
	m.lastUpdateReq = req
	return primary.Ok("Updated goal "+req.GoalID, primary.GoalData{Goal: &primary.Goal{ID: req.GoalID}})
}

func (m *mockGoalService) Delete(ctx context.Context, goalID string, purgeHistory bool) primary.CommandResult {
	m.lastPurge = purgeHistory
	return primary.Ok("Deleted goal "+goalID, primary.DeleteGoalData{GoalID: goalID})
}

func (m *mockGoalService) List(ctx context.Context, filters primary.GoalFilters) primary.CommandResult {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return primary.Ok("0 goal(s)", primary.ListGoalsData{})
}

func (m *mockGoalService) Start(ctx context.Context, goalID string) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) Complete(ctx context.Context, goalID string) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) Stop(ctx context.Context, goalID string) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) Archive(ctx context.Context, goalID string) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) Reopen(ctx context.Context, goalID string) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) LinkIssue(ctx context.Context, goalID string, issueNumber int) primary.CommandResult {
	return m.lifecycle
}

func (m *mockGoalService) Validate(ctx context.Context, goalID string) primary.CommandResult {
	if m.validateFn != nil {
		return m.validateFn(ctx, goalID)
	}
	return primary.Ok("0 goal(s) checked, 0 invalid", primary.ValidationData{})
}

func (m *mockGoalService) Current(ctx context.Context) primary.CommandResult {
	return primary.Ok("On branch develop", primary.CurrentGoalData{Branch: "develop"})
}

func (m *mockGoalService) History(ctx context.Context, goalID string) primary.CommandResult {
	if m.historyFn != nil {
		return m.historyFn(ctx, goalID)
	}
	return primary.Ok("0 event(s)", primary.HistoryData{GoalID: goalID})
}

func (m *mockGoalService) Push(ctx context.Context, goalID string, forceWithLease bool) primary.CommandResult {
	m.lastForce = forceWithLease
	return primary.Ok("Pushed", primary.PushData{GoalID: goalID})
}

func (m *mockGoalService) SyncFromIssueTracker(ctx context.Context) primary.CommandResult {
	if m.syncFn != nil {
		return m.syncFn(ctx)
	}
	return primary.Ok("Synced 0 issue(s)", primary.SyncFromTrackerData{})
}

func (m *mockGoalService) SyncGoalToIssueTracker(ctx context.Context, goalID string) primary.CommandResult {
	return primary.Ok("Skipped", primary.SyncToTrackerData{GoalID: goalID, Skipped: true})
}

func newTestGoalAdapter(asJSON bool) (*GoalAdapter, *mockGoalService, *bytes.Buffer) {
	svc := &mockGoalService{}
	out := &bytes.Buffer{}
	return NewGoalAdapter(svc, out, asJSON), svc, out
}

func TestGoalAdapter_Create(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)

	err := adapter.Create(context.Background(), "Add login", "POST /login")

	require.NoError(t, err)
	assert.Equal(t, "Add login", svc.lastCreateReq.Title)
	assert.Equal(t, "POST /login", svc.lastCreateReq.Description)
	assert.Contains(t, out.String(), "✓ Created goal g-abc123")
}

func TestGoalAdapter_Create_PrintsWarnings(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.createFn = func(ctx context.Context, req primary.CreateGoalRequest) primary.CommandResult {
		return primary.Ok("Created goal g-abc123", primary.CreateGoalData{
			GoalID: "g-abc123",
			Warnings: []primary.Finding{{
				Rule: "description_quality", Severity: "warning",
				Message: "description is empty", Suggestion: "Add acceptance criteria",
			}},
		})
	}

	require.NoError(t, adapter.Create(context.Background(), "Add login", ""))

	assert.Contains(t, out.String(), "! description_quality: description is empty")
	assert.Contains(t, out.String(), "Add acceptance criteria")
}

func TestGoalAdapter_Create_Rejected(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.createFn = func(ctx context.Context, req primary.CreateGoalRequest) primary.CommandResult {
		return primary.Fail(primary.KindConflict, "Goal rejected", errors.New("title must be unique")).
			WithData(primary.ValidationData{Reports: []primary.ValidationReport{{
				GoalID: "", Valid: false,
				Findings: []primary.Finding{{Rule: "unique_title", Severity: "error", Message: "title must be unique"}},
			}}})
	}

	err := adapter.Create(context.Background(), "Dup", "")

	var resultErr *ResultError
	require.ErrorAs(t, err, &resultErr)
	assert.Equal(t, primary.KindConflict, resultErr.Result.Kind)
	assert.Equal(t, "Goal rejected: title must be unique", err.Error())
	assert.Contains(t, out.String(), "✗ unique_title: title must be unique")
}

func TestGoalAdapter_List(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.listFn = func(ctx context.Context, filters primary.GoalFilters) primary.CommandResult {
		return primary.Ok("2 goal(s)", primary.ListGoalsData{
			Goals: []*primary.Goal{
				{ID: "g-aaa111", Title: "First", Status: "todo"},
				{ID: "g-bbb222", Title: "Second", Status: "in_progress", BranchName: "feature/g-bbb222-second", ExternalIssueID: 7},
			},
			Counts: primary.StatusCounts{Todo: 1, InProgress: 1, Done: 3},
		})
	}

	require.NoError(t, adapter.List(context.Background(), "todo"))

	assert.Equal(t, "todo", svc.lastFilters.Status)
	output := out.String()
	assert.Contains(t, output, "g-aaa111")
	assert.Contains(t, output, "feature/g-bbb222-second")
	assert.Contains(t, output, "#7")
	assert.Contains(t, output, "total: 5")
}

func TestGoalAdapter_List_JSON(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(true)
	svc.listFn = func(ctx context.Context, filters primary.GoalFilters) primary.CommandResult {
		return primary.Ok("1 goal(s)", primary.ListGoalsData{
			Goals:  []*primary.Goal{{ID: "g-aaa111", Title: "First", Status: "todo"}},
			Counts: primary.StatusCounts{Todo: 1},
		})
	}

	require.NoError(t, adapter.List(context.Background(), ""))

	var decoded struct {
		Success bool `json:"success"`
		Data    struct {
			Goals []struct {
				ID string `json:"id"`
			} `json:"goals"`
			Counts struct {
				Todo int `json:"todo"`
			} `json:"counts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.True(t, decoded.Success)
	require.Len(t, decoded.Data.Goals, 1)
	assert.Equal(t, "g-aaa111", decoded.Data.Goals[0].ID)
	assert.Equal(t, 1, decoded.Data.Counts.Todo)
}

func TestGoalAdapter_Lifecycle_SyncWarning(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.lifecycle = primary.Ok("Started goal g-abc123", primary.GoalData{
		Goal:        &primary.Goal{ID: "g-abc123", Title: "Add login", Status: "in_progress", BranchName: "feature/g-abc123-add-login"},
		SyncWarning: "issue #12 not updated: network unavailable",
	})

	require.NoError(t, adapter.Start(context.Background(), "g-abc123"))

	output := out.String()
	assert.Contains(t, output, "✓ Started goal g-abc123")
	assert.Contains(t, output, "! issue #12 not updated")
	assert.Contains(t, output, "Branch:  feature/g-abc123-add-login")
}

func TestGoalAdapter_Lifecycle_Failure(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.lifecycle = primary.Fail(primary.KindPrecondition, "Cannot start goal", errors.New("working tree has uncommitted changes"))

	err := adapter.Start(context.Background(), "g-abc123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "uncommitted changes")
	assert.Empty(t, out.String())
}

func TestGoalAdapter_Lifecycle_FailureJSON(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(true)
	svc.lifecycle = primary.Fail(primary.KindNotFound, "Goal not found", nil)

	err := adapter.Complete(context.Background(), "g-zzz999")

	require.Error(t, err)
	assert.Contains(t, out.String(), `"kind": "not_found"`)
	assert.Contains(t, out.String(), `"success": false`)
}

func TestGoalAdapter_Update_PassesPointers(t *testing.T) {
	adapter, svc, _ := newTestGoalAdapter(false)
	title := "New title"

	require.NoError(t, adapter.Update(context.Background(), "g-abc123", &title, nil))

	require.NotNil(t, svc.lastUpdateReq.Title)
	assert.Equal(t, "New title", *svc.lastUpdateReq.Title)
	assert.Nil(t, svc.lastUpdateReq.Description)
}

func TestGoalAdapter_DeleteAndPushFlags(t *testing.T) {
	adapter, svc, _ := newTestGoalAdapter(false)

	require.NoError(t, adapter.Delete(context.Background(), "g-abc123", true))
	require.NoError(t, adapter.Push(context.Background(), "g-abc123", true))

	assert.True(t, svc.lastPurge)
	assert.True(t, svc.lastForce)
}

func TestGoalAdapter_Validate_InvalidReportFails(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.validateFn = func(ctx context.Context, goalID string) primary.CommandResult {
		return primary.Ok("2 goal(s) checked, 1 invalid", primary.ValidationData{Reports: []primary.ValidationReport{
			{GoalID: "g-aaa111", Valid: true},
			{GoalID: "g-bbb222", Valid: false, Findings: []primary.Finding{
				{Rule: "branch_consistency", Severity: "error", Message: "branch is missing"},
			}},
		}})
	}

	err := adapter.Validate(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "g-bbb222")
	output := out.String()
	assert.Contains(t, output, "✓ g-aaa111")
	assert.Contains(t, output, "✗ g-bbb222")
	assert.Contains(t, output, "branch_consistency: branch is missing")
}

func TestGoalAdapter_History(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.historyFn = func(ctx context.Context, goalID string) primary.CommandResult {
		return primary.Ok("1 event(s)", primary.HistoryData{GoalID: goalID, Events: []*primary.GoalEvent{{
			GoalID: goalID, Actor: "alice", Action: "update", Field: "status",
			OldValue: "todo", NewValue: "in_progress", CreatedAt: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		}}})
	}

	require.NoError(t, adapter.History(context.Background(), "g-abc123"))

	output := out.String()
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "in_progress")
}

func TestGoalAdapter_SyncPull_ItemizedErrors(t *testing.T) {
	adapter, svc, out := newTestGoalAdapter(false)
	svc.syncFn = func(ctx context.Context) primary.CommandResult {
		return primary.Ok("Synced 2 issue(s): 1 created, 0 updated, 0 unchanged, 1 failed", primary.SyncFromTrackerData{
			CreatedCount: 1,
			Errors:       []primary.SyncError{{IssueNumber: 9, Message: "validation failed: title must be unique"}},
		})
	}

	err := adapter.SyncPull(context.Background())

	require.Error(t, err)
	assert.Equal(t, "1 issue(s) failed to sync", err.Error())
	assert.True(t, strings.Contains(out.String(), "✗ issue #9: validation failed"))
}

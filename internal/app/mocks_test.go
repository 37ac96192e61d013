package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/devagent/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockGoalRepository implements secondary.GoalRepository for testing.
type mockGoalRepository struct {
	goals      map[string]*secondary.GoalRecord
	createErr  error
	updateErr  error
	listErr    error
	issueErrs  map[int]error // GetByExternalIssueID failures per issue
	createSeen int
}

func newMockGoalRepository() *mockGoalRepository {
	return &mockGoalRepository{
		goals:     make(map[string]*secondary.GoalRecord),
		issueErrs: make(map[int]error),
	}
}

func (m *mockGoalRepository) put(r *secondary.GoalRecord) {
	cp := *r
	m.goals[r.ID] = &cp
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) error {
	m.createSeen++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.goals[goal.ID]; ok {
		return fmt.Errorf("goal %s: %w", goal.ID, secondary.ErrDuplicateID)
	}
	for _, g := range m.goals {
		if strings.EqualFold(strings.TrimSpace(g.Title), strings.TrimSpace(goal.Title)) {
			return fmt.Errorf("title: %w", secondary.ErrConflict)
		}
	}
	m.put(goal)
	return nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id string) (*secondary.GoalRecord, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockGoalRepository) Update(ctx context.Context, id string, patch secondary.GoalPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	g, ok := m.goals[id]
	if !ok {
		return secondary.ErrNotFound
	}
	if patch.Title != nil {
		g.Title = *patch.Title
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	if patch.BranchName != nil {
		g.BranchName = *patch.BranchName
	}
	if patch.ExternalIssueID != nil {
		g.ExternalIssueID = *patch.ExternalIssueID
	}
	if patch.CompletedAt != nil {
		t := *patch.CompletedAt
		g.CompletedAt = &t
	}
	if patch.ClearCompletedAt {
		g.CompletedAt = nil
	}
	g.UpdatedAt = g.UpdatedAt.Add(time.Second)
	return nil
}

func (m *mockGoalRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.goals[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *mockGoalRepository) List(ctx context.Context, filters secondary.GoalFilters) ([]*secondary.GoalRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.GoalRecord
	for _, g := range m.goals {
		if filters.Status != "" && g.Status != filters.Status {
			continue
		}
		cp := *g
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockGoalRepository) Count(ctx context.Context, status string) (int, error) {
	n := 0
	for _, g := range m.goals {
		if status == "" || g.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockGoalRepository) GetByExternalIssueID(ctx context.Context, issueNumber int) (*secondary.GoalRecord, error) {
	if err := m.issueErrs[issueNumber]; err != nil {
		return nil, err
	}
	for _, g := range m.goals {
		if g.ExternalIssueID == issueNumber {
			cp := *g
			return &cp, nil
		}
	}
	return nil, secondary.ErrNotFound
}

func (m *mockGoalRepository) GetByBranch(ctx context.Context, branch string) (*secondary.GoalRecord, error) {
	for _, g := range m.goals {
		if branch != "" && g.BranchName == branch {
			cp := *g
			return &cp, nil
		}
	}
	return nil, secondary.ErrNotFound
}

// mockEventRepository implements secondary.EventRepository for testing.
type mockEventRepository struct {
	events []*secondary.EventRecord
}

func (m *mockEventRepository) Create(ctx context.Context, event *secondary.EventRecord) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepository) ListByGoal(ctx context.Context, goalID string) ([]*secondary.EventRecord, error) {
	var out []*secondary.EventRecord
	for _, e := range m.events {
		if e.GoalID == goalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) DeleteByGoal(ctx context.Context, goalID string) error {
	kept := m.events[:0]
	for _, e := range m.events {
		if e.GoalID != goalID {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// fields returns "field:old->new" for each update event of a goal.
func (m *mockEventRepository) fields(goalID string) []string {
	var out []string
	for _, e := range m.events {
		if e.GoalID == goalID && e.Action == "update" {
			out = append(out, fmt.Sprintf("%s:%s->%s", e.Field, e.OldValue, e.NewValue))
		}
	}
	return out
}

// mockLogWriter implements secondary.LogWriter on top of mockEventRepository.
type mockLogWriter struct {
	events *mockEventRepository
}

func (m *mockLogWriter) LogCreate(ctx context.Context, goalID string) error {
	return m.events.Create(ctx, &secondary.EventRecord{GoalID: goalID, Action: "create"})
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, goalID, fieldName, oldValue, newValue string) error {
	if oldValue == newValue {
		return nil
	}
	return m.events.Create(ctx, &secondary.EventRecord{
		GoalID: goalID, Action: "update", Field: fieldName, OldValue: oldValue, NewValue: newValue,
	})
}

func (m *mockLogWriter) LogDelete(ctx context.Context, goalID string) error {
	return m.events.Create(ctx, &secondary.EventRecord{GoalID: goalID, Action: "delete"})
}

// mockConfigRepository implements secondary.ConfigRepository for testing.
type mockConfigRepository struct {
	entries map[string]string
	listErr error
}

func newMockConfigRepository() *mockConfigRepository {
	return &mockConfigRepository{entries: make(map[string]string)}
}

func (m *mockConfigRepository) Get(ctx context.Context, key string) (*secondary.ConfigRecord, error) {
	v, ok := m.entries[key]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return &secondary.ConfigRecord{Key: key, Value: v}, nil
}

func (m *mockConfigRepository) Set(ctx context.Context, key, value string) error {
	m.entries[key] = value
	return nil
}

func (m *mockConfigRepository) List(ctx context.Context) ([]*secondary.ConfigRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.ConfigRecord
	for k, v := range m.entries {
		out = append(out, &secondary.ConfigRecord{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockConfigRepository) Delete(ctx context.Context, key string) error {
	if _, ok := m.entries[key]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.entries, key)
	return nil
}

// mockTransactor implements secondary.Transactor by running fn directly.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockVCS implements secondary.VersionControl for testing.
type mockVCS struct {
	isRepo    bool
	clean     bool
	current   string
	branches  map[string]bool
	calls     []string
	status    *secondary.VCSStatus
	pullErr   error
	pushErr   error
	createErr error
}

func newMockVCS() *mockVCS {
	return &mockVCS{
		isRepo:   true,
		clean:    true,
		current:  "develop",
		branches: map[string]bool{"main": true, "develop": true},
	}
}

func (m *mockVCS) IsRepository(ctx context.Context) bool { return m.isRepo }

func (m *mockVCS) CurrentBranch(ctx context.Context) (string, error) {
	if !m.isRepo {
		return "", secondary.ErrNotRepository
	}
	return m.current, nil
}

func (m *mockVCS) IsWorkingTreeClean(ctx context.Context) (bool, error) { return m.clean, nil }

func (m *mockVCS) BranchExists(ctx context.Context, name string) (bool, error) {
	return m.branches[name], nil
}

func (m *mockVCS) CreateBranch(ctx context.Context, name string) error {
	m.calls = append(m.calls, "create "+name)
	if m.createErr != nil {
		return m.createErr
	}
	if m.branches[name] {
		return secondary.ErrBranchAlreadyExists
	}
	m.branches[name] = true
	return nil
}

func (m *mockVCS) Checkout(ctx context.Context, name string) error {
	m.calls = append(m.calls, "checkout "+name)
	if !m.branches[name] {
		return fmt.Errorf("%s: %w", name, secondary.ErrBranchNotFound)
	}
	m.current = name
	return nil
}

func (m *mockVCS) Pull(ctx context.Context, remote, branch string) error {
	m.calls = append(m.calls, "pull "+remote+" "+branch)
	return m.pullErr
}

func (m *mockVCS) Push(ctx context.Context, remote, branch string, forceWithLease bool) error {
	call := "push " + remote + " " + branch
	if forceWithLease {
		call += " --force-with-lease"
	}
	m.calls = append(m.calls, call)
	return m.pushErr
}

func (m *mockVCS) Status(ctx context.Context) (*secondary.VCSStatus, error) {
	if m.status != nil {
		return m.status, nil
	}
	return &secondary.VCSStatus{Branch: m.current}, nil
}

// mockTracker implements secondary.IssueTracker for testing.
type mockTracker struct {
	issues       []*secondary.Issue
	fetchErr     error
	milestoneErr error
	stateErr     error
	milestones   map[int]string
	states       map[int]string
}

func newMockTracker() *mockTracker {
	return &mockTracker{milestones: make(map[int]string), states: make(map[int]string)}
}

func (m *mockTracker) FetchOpenTodoIssues(ctx context.Context) ([]*secondary.Issue, error) {
	return m.issues, m.fetchErr
}

func (m *mockTracker) FetchMilestones(ctx context.Context, state string) ([]*secondary.Milestone, error) {
	return nil, nil
}

func (m *mockTracker) UpdateIssueMilestone(ctx context.Context, issueNumber int, milestoneTitle string) error {
	if m.milestoneErr != nil {
		return m.milestoneErr
	}
	m.milestones[issueNumber] = milestoneTitle
	return nil
}

func (m *mockTracker) UpdateIssueState(ctx context.Context, issueNumber int, state string) error {
	if m.stateErr != nil {
		return m.stateErr
	}
	m.states[issueNumber] = state
	return nil
}

var (
	_ secondary.GoalRepository   = (*mockGoalRepository)(nil)
	_ secondary.EventRepository  = (*mockEventRepository)(nil)
	_ secondary.LogWriter        = (*mockLogWriter)(nil)
	_ secondary.ConfigRepository = (*mockConfigRepository)(nil)
	_ secondary.Transactor       = (*mockTransactor)(nil)
	_ secondary.VersionControl   = (*mockVCS)(nil)
	_ secondary.IssueTracker     = (*mockTracker)(nil)
)

func fmtSlice(s []string) string {
	return fmt.Sprint(s)
}

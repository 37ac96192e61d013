package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/devagent/internal/core/goal"
	"github.com/example/devagent/internal/core/id"
	"github.com/example/devagent/internal/core/settings"
	"github.com/example/devagent/internal/core/validation"
	"github.com/example/devagent/internal/ports/primary"
	"github.com/example/devagent/internal/ports/secondary"
)

// maxIDAttempts bounds id regeneration after a primary key collision.
const maxIDAttempts = 3

// GoalServiceDeps lists the collaborators of GoalServiceImpl.
// Tracker may be nil when no issue tracker is configured.
type GoalServiceDeps struct {
	Goals      secondary.GoalRepository
	Events     secondary.EventRepository
	LogWriter  secondary.LogWriter
	Config     secondary.ConfigRepository
	Transactor secondary.Transactor
	VCS        secondary.VersionControl
	Tracker    secondary.IssueTracker
	Executor   EffectExecutor
	Logger     *zap.Logger
}

// GoalServiceImpl implements the GoalService interface.
// Every operation re-reads storage; nothing is cached between calls.
type GoalServiceImpl struct {
	goalRepo   secondary.GoalRepository
	eventRepo  secondary.EventRepository
	logWriter  secondary.LogWriter
	configRepo secondary.ConfigRepository
	tx         secondary.Transactor
	vcs        secondary.VersionControl
	tracker    secondary.IssueTracker
	executor   EffectExecutor
	log        *zap.Logger
	now        func() time.Time
	newID      func() (string, error)
}

// NewGoalService creates a new GoalService with injected dependencies.
func NewGoalService(deps GoalServiceDeps) *GoalServiceImpl {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &GoalServiceImpl{
		goalRepo:   deps.Goals,
		eventRepo:  deps.Events,
		logWriter:  deps.LogWriter,
		configRepo: deps.Config,
		tx:         deps.Transactor,
		vcs:        deps.VCS,
		tracker:    deps.Tracker,
		executor:   deps.Executor,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() (string, error) { return id.Generate(id.TypeGoal) },
	}
}

// ============================================================================
// Shared helpers
// ============================================================================

func (s *GoalServiceImpl) settings(ctx context.Context) (settings.Values, error) {
	records, err := s.configRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	stored := make(map[string]string, len(records))
	for _, r := range records {
		stored[r.Key] = r.Value
	}
	return settings.Resolve(stored)
}

// load validates the id against the configured pattern and reads the goal.
func (s *GoalServiceImpl) load(ctx context.Context, values settings.Values, goalID string) (goal.Goal, error) {
	if err := id.ValidatePattern(values.String(settings.GoalsIDPattern), goalID); err != nil {
		return goal.Goal{}, err
	}
	record, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return goal.Goal{}, fmt.Errorf("goal %s: %w", goalID, err)
		}
		return goal.Goal{}, fmt.Errorf("failed to read goal %s: %w", goalID, err)
	}
	return recordToGoal(record)
}

// begin performs the common opening of a single-goal operation.
func (s *GoalServiceImpl) begin(ctx context.Context, goalID string) (settings.Values, goal.Goal, *primary.CommandResult) {
	values, err := s.settings(ctx)
	if err != nil {
		r := failure("failed to read configuration", err)
		return nil, goal.Goal{}, &r
	}
	g, err := s.load(ctx, values, goalID)
	if err != nil {
		r := failure(fmt.Sprintf("cannot load goal %s", goalID), err)
		return nil, goal.Goal{}, &r
	}
	return values, g, nil
}

func (s *GoalServiceImpl) allGoals(ctx context.Context) ([]goal.Goal, error) {
	records, err := s.goalRepo.List(ctx, secondary.GoalFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return recordsToGoals(records)
}

func (s *GoalServiceImpl) validationContext(ctx context.Context, values settings.Values) (validation.Context, error) {
	all, err := s.allGoals(ctx)
	if err != nil {
		return validation.Context{}, err
	}
	return validation.Context{
		AllGoals:        all,
		InProgressLimit: values.Int(settings.GoalsInProgressLimit),
	}, nil
}

// introducedErrors returns error findings of next that previous did not
// already have, so edits are not blocked by unrelated pre-existing drift.
func introducedErrors(previous *validation.Report, next validation.Report) []validation.Result {
	already := make(map[string]bool)
	if previous != nil {
		for _, r := range previous.Errors() {
			already[r.Rule] = true
		}
	}
	var out []validation.Result
	for _, r := range next.Errors() {
		if !already[r.Rule] {
			out = append(out, r)
		}
	}
	return out
}

// rejection builds the failed result for a candidate with error findings.
func rejection(report validation.Report, errs []validation.Result) primary.CommandResult {
	kind := primary.KindValidation
	msgs := make([]string, len(errs))
	for i, r := range errs {
		msgs[i] = r.Message
		if r.Rule == validation.RuleUniqueTitle || r.Rule == validation.RuleExternalIssueUniqueness {
			kind = primary.KindConflict
		}
	}
	result := primary.Fail(kind, "goal validation failed", errors.New(strings.Join(msgs, "; ")))
	return result.WithData(primary.ValidationData{Reports: []primary.ValidationReport{reportToPort(report)}})
}

// createRecord inserts a goal with a fresh id and its create event,
// regenerating the id on a primary key collision.
func (s *GoalServiceImpl) createRecord(ctx context.Context, g *goal.Goal) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if attempt > 0 || g.ID == "" {
			if g.ID, err = s.newID(); err != nil {
				return err
			}
		}
		record := &secondary.GoalRecord{
			ID:              g.ID,
			Title:           g.Title,
			Description:     g.Description,
			Status:          string(g.Status),
			ExternalIssueID: g.ExternalIssueID,
			CreatedAt:       g.CreatedAt,
			UpdatedAt:       g.UpdatedAt,
		}
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.goalRepo.Create(ctx, record); err != nil {
				return err
			}
			return s.logWriter.LogCreate(ctx, g.ID)
		})
		if !errors.Is(err, secondary.ErrDuplicateID) {
			return err
		}
		s.log.Debug("goal id collision, regenerating", zap.String("goal_id", g.ID))
	}
	return fmt.Errorf("failed to allocate a goal id after %d attempts: %w", maxIDAttempts, err)
}

// updateFields writes title/description/issue changes and their events.
func (s *GoalServiceImpl) updateFields(ctx context.Context, prev, next goal.Goal) error {
	var patch secondary.GoalPatch
	if next.Title != prev.Title {
		patch.Title = &next.Title
	}
	if next.Description != prev.Description {
		patch.Description = &next.Description
	}
	if next.ExternalIssueID != prev.ExternalIssueID {
		patch.ExternalIssueID = &next.ExternalIssueID
	}
	if patch.Title == nil && patch.Description == nil && patch.ExternalIssueID == nil {
		return nil
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.goalRepo.Update(ctx, prev.ID, patch); err != nil {
			return err
		}
		if err := s.logWriter.LogUpdate(ctx, prev.ID, fieldTitle, prev.Title, next.Title); err != nil {
			return err
		}
		if err := s.logWriter.LogUpdate(ctx, prev.ID, fieldDescription, prev.Description, next.Description); err != nil {
			return err
		}
		return s.logWriter.LogUpdate(ctx, prev.ID, fieldIssue, issueString(prev.ExternalIssueID), issueString(next.ExternalIssueID))
	})
}

func issueString(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// reload reads a goal after a write.
func (s *GoalServiceImpl) reload(ctx context.Context, goalID string) (goal.Goal, error) {
	record, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return goal.Goal{}, fmt.Errorf("failed to read goal %s: %w", goalID, err)
	}
	return recordToGoal(record)
}

// ============================================================================
// CRUD
// ============================================================================

// Create validates and stores a new todo goal.
func (s *GoalServiceImpl) Create(ctx context.Context, req primary.CreateGoalRequest) primary.CommandResult {
	values, err := s.settings(ctx)
	if err != nil {
		return failure("failed to read configuration", err)
	}
	vctx, err := s.validationContext(ctx, values)
	if err != nil {
		return failure("failed to read goals", err)
	}

	goalID, err := s.newID()
	if err != nil {
		return failure("failed to generate goal id", err)
	}
	now := s.now()
	candidate := goal.Goal{
		ID:          goalID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      goal.InitialStatus(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	report := validation.Validate(validation.Candidate{Goal: candidate}, vctx)
	if errs := report.Errors(); len(errs) > 0 {
		return rejection(report, errs)
	}

	if err := s.createRecord(ctx, &candidate); err != nil {
		return failure("failed to create goal", err)
	}
	s.log.Debug("goal created", zap.String("goal_id", candidate.ID))

	return primary.Ok(fmt.Sprintf("Created goal %s: %s", candidate.ID, candidate.Title), primary.CreateGoalData{
		GoalID:   candidate.ID,
		Goal:     goalToPort(candidate),
		Warnings: warningsOf(report),
	})
}

// Get retrieves a goal by ID.
func (s *GoalServiceImpl) Get(ctx context.Context, goalID string) primary.CommandResult {
	_, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}
	return primary.Ok(fmt.Sprintf("Goal %s", g.ID), primary.GoalData{Goal: goalToPort(g)})
}

// Update changes a goal's title and/or description after validating the
// result in update mode.
func (s *GoalServiceImpl) Update(ctx context.Context, req primary.UpdateGoalRequest) primary.CommandResult {
	if req.Title == nil && req.Description == nil {
		return primary.Fail(primary.KindValidation, "nothing to update: provide a title or a description", nil)
	}
	values, prev, fail := s.begin(ctx, req.GoalID)
	if fail != nil {
		return *fail
	}

	next := prev
	if req.Title != nil {
		next.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		next.Description = strings.TrimSpace(*req.Description)
	}
	return s.applyEdit(ctx, values, prev, next, fmt.Sprintf("Updated goal %s", prev.ID))
}

// applyEdit validates and stores a non-lifecycle change to a goal.
func (s *GoalServiceImpl) applyEdit(ctx context.Context, values settings.Values, prev, next goal.Goal, message string) primary.CommandResult {
	vctx, err := s.validationContext(ctx, values)
	if err != nil {
		return failure("failed to read goals", err)
	}
	before := validation.Validate(validation.Candidate{Goal: prev, Previous: &prev}, vctx)
	report := validation.Validate(validation.Candidate{Goal: next, Previous: &prev}, vctx)
	if errs := introducedErrors(&before, report); len(errs) > 0 {
		return rejection(report, errs)
	}

	if err := s.updateFields(ctx, prev, next); err != nil {
		return failure(fmt.Sprintf("failed to update goal %s", prev.ID), err)
	}
	updated, err := s.reload(ctx, prev.ID)
	if err != nil {
		return failure("goal updated but could not be re-read", err)
	}
	return primary.Ok(message, primary.GoalData{Goal: goalToPort(updated), Warnings: warningsOf(report)})
}

// Delete removes a goal outside the lifecycle.
func (s *GoalServiceImpl) Delete(ctx context.Context, goalID string, purgeHistory bool) primary.CommandResult {
	_, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.goalRepo.Delete(ctx, g.ID); err != nil {
			return err
		}
		if purgeHistory {
			return s.eventRepo.DeleteByGoal(ctx, g.ID)
		}
		return s.logWriter.LogDelete(ctx, g.ID)
	})
	if err != nil {
		return failure(fmt.Sprintf("failed to delete goal %s", g.ID), err)
	}
	return primary.Ok(fmt.Sprintf("Deleted goal %s", g.ID), primary.DeleteGoalData{GoalID: g.ID})
}

// List returns goals matching the filter. Counts always cover every goal.
func (s *GoalServiceImpl) List(ctx context.Context, filters primary.GoalFilters) primary.CommandResult {
	if filters.Status != "" {
		if _, err := goal.ParseStatus(filters.Status); err != nil {
			return primary.Fail(primary.KindValidation, "invalid status filter", err)
		}
	}

	records, err := s.goalRepo.List(ctx, secondary.GoalFilters{Status: filters.Status})
	if err != nil {
		return failure("failed to list goals", err)
	}
	goals, err := recordsToGoals(records)
	if err != nil {
		return failure("failed to list goals", err)
	}

	var counts primary.StatusCounts
	for _, st := range goal.AllStatuses {
		n, err := s.goalRepo.Count(ctx, string(st))
		if err != nil {
			return failure("failed to count goals", err)
		}
		switch st {
		case goal.StatusTodo:
			counts.Todo = n
		case goal.StatusInProgress:
			counts.InProgress = n
		case goal.StatusDone:
			counts.Done = n
		case goal.StatusArchived:
			counts.Archived = n
		}
	}

	out := make([]*primary.Goal, len(goals))
	for i, g := range goals {
		out[i] = goalToPort(g)
	}
	return primary.Ok(fmt.Sprintf("%d goal(s)", len(out)), primary.ListGoalsData{Goals: out, Counts: counts})
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start moves a todo goal to in_progress on a fresh feature branch.
// All preconditions are checked before git or storage is touched.
func (s *GoalServiceImpl) Start(ctx context.Context, goalID string) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}

	guardCtx := goal.StartContext{GoalID: g.ID, Status: g.Status, IsRepository: s.vcs.IsRepository(ctx)}
	if guardCtx.IsRepository && g.Status == goal.StatusTodo {
		clean, err := s.vcs.IsWorkingTreeClean(ctx)
		if err != nil {
			return failure("failed to read working tree status", err)
		}
		guardCtx.WorkingTreeClean = clean
	}
	if result := goal.CanStartGoal(guardCtx); !result.Allowed {
		return precondition(result.Reason)
	}

	prefix := values.String(settings.BranchesFeaturePrefix)
	branch := goal.GenerateBranchName(prefix, g.ID, g.Title)
	exists, err := s.vcs.BranchExists(ctx, branch)
	if err != nil {
		return failure("failed to check branch", err)
	}

	plan := goal.GenerateStartPlan(goal.StartPlanInput{
		GoalID:        g.ID,
		Title:         g.Title,
		BaseBranch:    values.String(settings.BranchesDevelop),
		FeaturePrefix: prefix,
		Remote:        values.String(settings.BranchesRemote),
		PullBase:      values.Bool(settings.BranchesPullOnStart),
		BranchExists:  exists,
		Now:           s.now(),
	})
	return s.run(ctx, values, g, plan, fmt.Sprintf("Started goal %s on branch %s", g.ID, branch))
}

// Complete marks an in_progress goal done. Git is not touched.
func (s *GoalServiceImpl) Complete(ctx context.Context, goalID string) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}

	guardCtx := goal.CompleteContext{GoalID: g.ID, Status: g.Status, BranchName: g.BranchName}
	if g.Status == goal.StatusInProgress {
		current, err := s.currentBranch(ctx)
		if err != nil {
			return failure("failed to read current branch", err)
		}
		guardCtx.CurrentBranch = current
	}
	if result := goal.CanCompleteGoal(guardCtx); !result.Allowed {
		return precondition(result.Reason)
	}

	plan := goal.GenerateTransitionPlan(g.ID, g.Status, goal.StatusDone, s.now())
	return s.run(ctx, values, g, plan, fmt.Sprintf("Completed goal %s", g.ID))
}

// Stop returns an in_progress goal to todo and checks out the base branch.
func (s *GoalServiceImpl) Stop(ctx context.Context, goalID string) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}
	if result := goal.CanStopGoal(goal.StateContext{GoalID: g.ID, Status: g.Status}); !result.Allowed {
		return precondition(result.Reason)
	}
	if !s.vcs.IsRepository(ctx) {
		return failure(fmt.Sprintf("cannot stop goal %s", g.ID), secondary.ErrNotRepository)
	}

	plan := goal.GenerateLeavePlan(goal.LeavePlanInput{
		GoalID:         g.ID,
		From:           g.Status,
		To:             goal.StatusTodo,
		BranchName:     g.BranchName,
		BaseBranch:     values.String(settings.BranchesDevelop),
		AlwaysCheckout: true,
		Now:            s.now(),
	})
	return s.run(ctx, values, g, plan, fmt.Sprintf("Stopped goal %s", g.ID))
}

// Archive shelves a goal, leaving its branch first if it is checked out.
func (s *GoalServiceImpl) Archive(ctx context.Context, goalID string) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}
	if result := goal.CanArchiveGoal(goal.StateContext{GoalID: g.ID, Status: g.Status}); !result.Allowed {
		return precondition(result.Reason)
	}

	var current string
	if g.HasBranch() && s.vcs.IsRepository(ctx) {
		var err error
		if current, err = s.currentBranch(ctx); err != nil {
			return failure("failed to read current branch", err)
		}
	}

	plan := goal.GenerateLeavePlan(goal.LeavePlanInput{
		GoalID:        g.ID,
		From:          g.Status,
		To:            goal.StatusArchived,
		BranchName:    g.BranchName,
		BaseBranch:    values.String(settings.BranchesDevelop),
		CurrentBranch: current,
		Now:           s.now(),
	})
	return s.run(ctx, values, g, plan, fmt.Sprintf("Archived goal %s", g.ID))
}

// Reopen moves a done or archived goal back to todo.
func (s *GoalServiceImpl) Reopen(ctx context.Context, goalID string) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}
	if result := goal.CanReopenGoal(goal.StateContext{GoalID: g.ID, Status: g.Status}); !result.Allowed {
		return precondition(result.Reason)
	}

	plan := goal.GenerateTransitionPlan(g.ID, g.Status, goal.StatusTodo, s.now())
	return s.run(ctx, values, g, plan, fmt.Sprintf("Reopened goal %s", g.ID))
}

// run executes a lifecycle plan, re-reads the goal and pushes it to the
// tracker when auto-sync is on.
func (s *GoalServiceImpl) run(ctx context.Context, values settings.Values, prev goal.Goal, plan goal.Plan, message string) primary.CommandResult {
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		s.log.Debug("plan failed", zap.String("goal_id", prev.ID), zap.Error(err))
		return failure(fmt.Sprintf("failed to update goal %s", prev.ID), err)
	}

	updated, err := s.reload(ctx, prev.ID)
	if err != nil {
		return failure("goal updated but could not be re-read", err)
	}

	data := primary.GoalData{Goal: goalToPort(updated)}
	if vctx, err := s.validationContext(ctx, values); err == nil {
		report := validation.Validate(validation.Candidate{Goal: updated, Previous: &prev}, vctx)
		data.Warnings = warningsOf(report)
	}
	data.SyncWarning = s.autoSync(ctx, values, updated)
	return primary.Ok(message, data)
}

// autoSync pushes a goal's state when github.auto_sync is on. A failure is
// returned as a warning message rather than failing the operation.
func (s *GoalServiceImpl) autoSync(ctx context.Context, values settings.Values, g goal.Goal) string {
	if !values.Bool(settings.GitHubAutoSync) || !g.IsLinked() {
		return ""
	}
	if _, err := s.pushToTracker(ctx, g); err != nil {
		s.log.Warn("auto-sync failed", zap.String("goal_id", g.ID), zap.Int("issue", g.ExternalIssueID), zap.Error(err))
		return fmt.Sprintf("issue #%d not updated: %v", g.ExternalIssueID, err)
	}
	return ""
}

func (s *GoalServiceImpl) currentBranch(ctx context.Context) (string, error) {
	if !s.vcs.IsRepository(ctx) {
		return "", secondary.ErrNotRepository
	}
	return s.vcs.CurrentBranch(ctx)
}

// ============================================================================
// Additional operations
// ============================================================================

// LinkIssue attaches a tracker issue number to a goal.
func (s *GoalServiceImpl) LinkIssue(ctx context.Context, goalID string, issueNumber int) primary.CommandResult {
	if result := goal.CanLinkIssue(goalID, issueNumber); !result.Allowed {
		return primary.Fail(primary.KindValidation, result.Reason, nil)
	}
	values, prev, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}

	next := prev
	next.ExternalIssueID = issueNumber
	return s.applyEdit(ctx, values, prev, next, fmt.Sprintf("Linked goal %s to issue #%d", prev.ID, issueNumber))
}

// Validate reports findings for one goal, or for every goal when goalID is
// empty, against the live working tree.
func (s *GoalServiceImpl) Validate(ctx context.Context, goalID string) primary.CommandResult {
	values, err := s.settings(ctx)
	if err != nil {
		return failure("failed to read configuration", err)
	}
	vctx, err := s.validationContext(ctx, values)
	if err != nil {
		return failure("failed to read goals", err)
	}
	if s.vcs.IsRepository(ctx) {
		if branch, err := s.vcs.CurrentBranch(ctx); err == nil {
			vctx.CurrentBranch = branch
		}
		if clean, err := s.vcs.IsWorkingTreeClean(ctx); err == nil {
			vctx.WorkingTreeClean = &clean
		}
	}

	targets := vctx.AllGoals
	if goalID != "" {
		g, err := s.load(ctx, values, goalID)
		if err != nil {
			return failure(fmt.Sprintf("cannot load goal %s", goalID), err)
		}
		targets = []goal.Goal{g}
	}

	data := primary.ValidationData{Reports: make([]primary.ValidationReport, 0, len(targets))}
	invalid := 0
	for i := range targets {
		g := targets[i]
		report := validation.Validate(validation.Candidate{Goal: g, Previous: &g}, vctx)
		if !report.Valid() {
			invalid++
		}
		data.Reports = append(data.Reports, reportToPort(report))
	}

	message := fmt.Sprintf("%d goal(s) checked, %d invalid", len(targets), invalid)
	return primary.Ok(message, data)
}

// Current returns the goal whose branch is checked out, with the branch's
// position relative to its upstream.
func (s *GoalServiceImpl) Current(ctx context.Context) primary.CommandResult {
	if !s.vcs.IsRepository(ctx) {
		return failure("cannot read current goal", secondary.ErrNotRepository)
	}
	status, err := s.vcs.Status(ctx)
	if err != nil {
		return failure("failed to read repository status", err)
	}

	data := primary.CurrentGoalData{
		Branch:       status.Branch,
		Ahead:        status.Ahead,
		Behind:       status.Behind,
		ChangedFiles: status.ChangedFiles,
	}

	record, err := s.goalRepo.GetByBranch(ctx, status.Branch)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return primary.Ok(fmt.Sprintf("No goal on branch %s", status.Branch), data)
	case err != nil:
		return failure("failed to look up goal by branch", err)
	}
	g, err := recordToGoal(record)
	if err != nil {
		return failure("failed to read goal", err)
	}
	data.Goal = goalToPort(g)
	return primary.Ok(fmt.Sprintf("Goal %s on branch %s", g.ID, status.Branch), data)
}

// History lists the audit events of a goal, oldest first. Events of a
// deleted goal remain readable.
func (s *GoalServiceImpl) History(ctx context.Context, goalID string) primary.CommandResult {
	values, err := s.settings(ctx)
	if err != nil {
		return failure("failed to read configuration", err)
	}
	if err := id.ValidatePattern(values.String(settings.GoalsIDPattern), goalID); err != nil {
		return failure(fmt.Sprintf("cannot load goal %s", goalID), err)
	}

	records, err := s.eventRepo.ListByGoal(ctx, goalID)
	if err != nil {
		return failure("failed to read history", err)
	}
	if len(records) == 0 {
		if _, err := s.load(ctx, values, goalID); err != nil {
			return failure(fmt.Sprintf("cannot load goal %s", goalID), err)
		}
	}

	events := make([]*primary.GoalEvent, len(records))
	for i, r := range records {
		events[i] = eventToPort(r)
	}
	return primary.Ok(fmt.Sprintf("%d event(s) for goal %s", len(events), goalID), primary.HistoryData{GoalID: goalID, Events: events})
}

// Push publishes an in_progress goal's branch to the configured remote.
func (s *GoalServiceImpl) Push(ctx context.Context, goalID string, forceWithLease bool) primary.CommandResult {
	values, g, fail := s.begin(ctx, goalID)
	if fail != nil {
		return *fail
	}
	if result := goal.CanPushGoal(goal.StateContext{GoalID: g.ID, Status: g.Status}, g.BranchName); !result.Allowed {
		return precondition(result.Reason)
	}
	if !s.vcs.IsRepository(ctx) {
		return failure(fmt.Sprintf("cannot push goal %s", g.ID), secondary.ErrNotRepository)
	}

	remote := values.String(settings.BranchesRemote)
	plan := goal.GeneratePushPlan(g.ID, g.BranchName, remote, forceWithLease)
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		return failure(fmt.Sprintf("failed to push branch %s", g.BranchName), err)
	}
	return primary.Ok(fmt.Sprintf("Pushed %s to %s", g.BranchName, remote), primary.PushData{
		GoalID: g.ID,
		Branch: g.BranchName,
		Remote: remote,
	})
}

var _ primary.GoalService = (*GoalServiceImpl)(nil)

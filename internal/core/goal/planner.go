package goal

import (
	"time"

	"github.com/example/devagent/internal/core/effects"
)

// Persist entity and operation names for goal changes.
const (
	EntityGoal          = "goal"
	OperationTransition = "transition"
)

// Change is a status transition ready to be stored.
type Change struct {
	GoalID           string
	From             Status
	To               Status
	BranchName       *string // nil leaves the branch alone; "" clears it
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// NewChange builds the Change for a transition, applying its timestamp and
// branch side effects.
func NewChange(goalID string, from, to Status, now time.Time) Change {
	r := ApplyStatusTransition(from, to, now)
	c := Change{
		GoalID:           goalID,
		From:             from,
		To:               r.NewStatus,
		CompletedAt:      r.CompletedAt,
		ClearCompletedAt: r.ClearCompletedAt,
	}
	if r.ClearBranch {
		empty := ""
		c.BranchName = &empty
	}
	return c
}

// Plan represents the planned effects for one lifecycle operation.
type Plan struct {
	GoalID      string
	GitOps      []effects.GitEffect
	DatabaseOps []effects.PersistEffect
	LogOps      []effects.LogEffect
}

// Effects returns all effects as a flat slice for execution.
// Git effects always come before storage writes; log entries run once
// both have succeeded.
func (p Plan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.GitOps)+len(p.DatabaseOps)+len(p.LogOps))
	for _, e := range p.GitOps {
		result = append(result, e)
	}
	for _, e := range p.DatabaseOps {
		result = append(result, e)
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	return result
}

func persist(c Change) effects.PersistEffect {
	return effects.PersistEffect{Entity: EntityGoal, Operation: OperationTransition, Data: c}
}

func logTransition(c Change) effects.LogEffect {
	fields := map[string]any{"goal_id": c.GoalID, "from": string(c.From), "to": string(c.To)}
	if c.BranchName != nil && *c.BranchName != "" {
		fields["branch"] = *c.BranchName
	}
	return effects.LogEffect{Level: "info", Message: "goal transitioned", Fields: fields}
}

// StartPlanInput contains the inputs needed to generate a start plan.
// All values are pre-fetched by the caller - no I/O in the planner.
type StartPlanInput struct {
	GoalID        string
	Title         string
	BaseBranch    string
	FeaturePrefix string
	Remote        string
	PullBase      bool
	BranchExists  bool
	Now           time.Time
}

// GenerateStartPlan creates the plan for starting work on a goal.
// Re-running it after a partial failure is safe: an existing branch is
// checked out instead of being created again.
func GenerateStartPlan(in StartPlanInput) Plan {
	branch := GenerateBranchName(in.FeaturePrefix, in.GoalID, in.Title)
	plan := Plan{GoalID: in.GoalID}

	plan.GitOps = append(plan.GitOps, effects.GitEffect{Operation: effects.GitCheckout, Branch: in.BaseBranch})
	if in.PullBase {
		plan.GitOps = append(plan.GitOps, effects.GitEffect{Operation: effects.GitPull, Branch: in.BaseBranch, Remote: in.Remote})
	}
	if !in.BranchExists {
		plan.GitOps = append(plan.GitOps, effects.GitEffect{Operation: effects.GitCreateBranch, Branch: branch})
	}
	plan.GitOps = append(plan.GitOps, effects.GitEffect{Operation: effects.GitCheckout, Branch: branch})

	change := NewChange(in.GoalID, StatusTodo, StatusInProgress, in.Now)
	change.BranchName = &branch
	plan.DatabaseOps = append(plan.DatabaseOps, persist(change))
	plan.LogOps = append(plan.LogOps, logTransition(change))
	return plan
}

// LeavePlanInput contains the inputs for plans that take a goal off its
// branch (stop and archive).
type LeavePlanInput struct {
	GoalID         string
	From           Status
	To             Status
	BranchName     string
	BaseBranch     string
	CurrentBranch  string
	AlwaysCheckout bool // stop returns to the base branch unconditionally
	Now            time.Time
}

// GenerateLeavePlan creates the plan for stop and archive. The base branch
// is checked out when required or when the goal's branch is checked out.
func GenerateLeavePlan(in LeavePlanInput) Plan {
	plan := Plan{GoalID: in.GoalID}

	onGoalBranch := in.BranchName != "" && in.CurrentBranch == in.BranchName
	if in.AlwaysCheckout || onGoalBranch {
		plan.GitOps = append(plan.GitOps, effects.GitEffect{Operation: effects.GitCheckout, Branch: in.BaseBranch})
	}

	change := NewChange(in.GoalID, in.From, in.To, in.Now)
	plan.DatabaseOps = append(plan.DatabaseOps, persist(change))
	plan.LogOps = append(plan.LogOps, logTransition(change))
	return plan
}

// GenerateTransitionPlan creates a storage-only plan (complete, reopen).
func GenerateTransitionPlan(goalID string, from, to Status, now time.Time) Plan {
	change := NewChange(goalID, from, to, now)
	return Plan{
		GoalID:      goalID,
		DatabaseOps: []effects.PersistEffect{persist(change)},
		LogOps:      []effects.LogEffect{logTransition(change)},
	}
}

// GeneratePushPlan creates the plan for publishing a goal branch.
func GeneratePushPlan(goalID, branch, remote string, forceWithLease bool) Plan {
	return Plan{
		GoalID: goalID,
		GitOps: []effects.GitEffect{{
			Operation:      effects.GitPush,
			Branch:         branch,
			Remote:         remote,
			ForceWithLease: forceWithLease,
		}},
		LogOps: []effects.LogEffect{{
			Level:   "info",
			Message: "goal branch pushed",
			Fields:  map[string]any{"goal_id": goalID, "branch": branch, "remote": remote},
		}},
	}
}

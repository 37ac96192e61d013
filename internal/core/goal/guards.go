package goal

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// StartContext provides context for the start guard.
// All values are pre-fetched by the caller.
type StartContext struct {
	GoalID           string
	Status           Status
	IsRepository     bool
	WorkingTreeClean bool
}

// CanStartGoal evaluates whether a goal can be started.
// Rules:
//   - status must be todo
//   - the working directory must be a git repository
//   - the working tree must be clean
func CanStartGoal(ctx StartContext) GuardResult {
	if ctx.Status != StatusTodo {
		return deny("cannot start goal %s: status is %s (must be todo)", ctx.GoalID, ctx.Status)
	}
	if !ctx.IsRepository {
		return deny("cannot start goal %s: not inside a git repository", ctx.GoalID)
	}
	if !ctx.WorkingTreeClean {
		return deny("cannot start goal %s: working tree is not clean. Commit or stash your changes first", ctx.GoalID)
	}
	return allow()
}

// CompleteContext provides context for the complete guard.
type CompleteContext struct {
	GoalID        string
	Status        Status
	BranchName    string
	CurrentBranch string
}

// CanCompleteGoal evaluates whether a goal can be marked done.
// Rules:
//   - status must be in_progress
//   - the current branch must equal the goal's branch exactly
func CanCompleteGoal(ctx CompleteContext) GuardResult {
	if ctx.Status != StatusInProgress {
		return deny("cannot complete goal %s: status is %s (must be in_progress)", ctx.GoalID, ctx.Status)
	}
	if ctx.BranchName == "" || ctx.CurrentBranch != ctx.BranchName {
		return deny("cannot complete goal %s: wrong branch %q (expected %q). Run: git checkout %s",
			ctx.GoalID, ctx.CurrentBranch, ctx.BranchName, ctx.BranchName)
	}
	return allow()
}

// StateContext provides context for guards that depend on status alone.
type StateContext struct {
	GoalID string
	Status Status
}

// CanStopGoal evaluates whether work on a goal can be stopped.
// Rule: status must be in_progress.
func CanStopGoal(ctx StateContext) GuardResult {
	if ctx.Status != StatusInProgress {
		return deny("cannot stop goal %s: status is %s (must be in_progress)", ctx.GoalID, ctx.Status)
	}
	return allow()
}

// CanArchiveGoal evaluates whether a goal can be archived.
// Rule: any status except archived.
func CanArchiveGoal(ctx StateContext) GuardResult {
	if ctx.Status == StatusArchived {
		return deny("goal %s is already archived", ctx.GoalID)
	}
	return allow()
}

// CanReopenGoal evaluates whether a goal can be moved back to todo.
// Rule: status must be done or archived.
func CanReopenGoal(ctx StateContext) GuardResult {
	if ctx.Status != StatusDone && ctx.Status != StatusArchived {
		return deny("cannot reopen goal %s: status is %s (must be done or archived)", ctx.GoalID, ctx.Status)
	}
	return allow()
}

// CanPushGoal evaluates whether a goal's branch can be pushed.
// Rule: status must be in_progress with a branch.
func CanPushGoal(ctx StateContext, branchName string) GuardResult {
	if ctx.Status != StatusInProgress {
		return deny("cannot push goal %s: status is %s (must be in_progress)", ctx.GoalID, ctx.Status)
	}
	if branchName == "" {
		return deny("cannot push goal %s: no branch recorded", ctx.GoalID)
	}
	return allow()
}

// CanLinkIssue evaluates whether an issue number can be attached to a goal.
func CanLinkIssue(goalID string, issueNumber int) GuardResult {
	if issueNumber <= 0 {
		return deny("cannot link goal %s: issue number must be positive, got %d", goalID, issueNumber)
	}
	return allow()
}

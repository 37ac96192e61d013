package primary

import "context"

// GoalService defines the primary port for goal lifecycle operations.
// Every method reports failure through the returned CommandResult.
type GoalService interface {
	// Create validates and stores a new todo goal.
	Create(ctx context.Context, req CreateGoalRequest) CommandResult

	// Get retrieves a goal by ID.
	Get(ctx context.Context, goalID string) CommandResult

	// Update changes a goal's title and/or description.
	Update(ctx context.Context, req UpdateGoalRequest) CommandResult

	// Delete removes a goal. Its history is kept, ending with a delete
	// event, unless purgeHistory is set.
	Delete(ctx context.Context, goalID string, purgeHistory bool) CommandResult

	// List returns goals matching the filter plus counts over all goals.
	List(ctx context.Context, filters GoalFilters) CommandResult

	// Start moves a todo goal to in_progress and creates its branch.
	Start(ctx context.Context, goalID string) CommandResult

	// Complete marks an in_progress goal done. The goal's branch must be checked out.
	Complete(ctx context.Context, goalID string) CommandResult

	// Stop returns an in_progress goal to todo and checks out the base branch.
	Stop(ctx context.Context, goalID string) CommandResult

	// Archive shelves a goal from any other status.
	Archive(ctx context.Context, goalID string) CommandResult

	// Reopen moves a done or archived goal back to todo.
	Reopen(ctx context.Context, goalID string) CommandResult

	// LinkIssue attaches a tracker issue number to a goal.
	LinkIssue(ctx context.Context, goalID string, issueNumber int) CommandResult

	// Validate reports rule findings for one goal, or all goals when goalID is empty.
	Validate(ctx context.Context, goalID string) CommandResult

	// Current returns the goal whose branch is checked out.
	Current(ctx context.Context) CommandResult

	// History lists the audit events of a goal.
	History(ctx context.Context, goalID string) CommandResult

	// Push publishes an in_progress goal's branch to the configured remote.
	Push(ctx context.Context, goalID string, forceWithLease bool) CommandResult

	// SyncFromIssueTracker imports open Todo issues as goals.
	SyncFromIssueTracker(ctx context.Context) CommandResult

	// SyncGoalToIssueTracker pushes a goal's status to its linked issue.
	SyncGoalToIssueTracker(ctx context.Context, goalID string) CommandResult
}

// CreateGoalRequest contains parameters for creating a goal.
type CreateGoalRequest struct {
	Title       string
	Description string
}

// UpdateGoalRequest contains parameters for updating a goal.
// Nil fields are left unchanged.
type UpdateGoalRequest struct {
	GoalID      string
	Title       *string
	Description *string
}

// GoalFilters contains filter options for listing goals.
type GoalFilters struct {
	Status string // Empty means all
}

package secondary

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an insert collides with an existing primary key.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrConflict is returned when a write violates a uniqueness constraint
	// other than the primary key (title, external issue).
	ErrConflict = errors.New("conflict")

	// ErrStorageBusy is returned when the database stays locked past the busy timeout.
	ErrStorageBusy = errors.New("storage busy")
)

// Version-control errors.
var (
	// ErrNotRepository is returned when the working directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrBranchAlreadyExists is returned when creating a branch that exists.
	ErrBranchAlreadyExists = errors.New("branch already exists")

	// ErrBranchNotFound is returned when checking out a branch that does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrMergeConflict is returned when a pull cannot be merged cleanly.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrPullRefused is returned when git declines to start a merge, e.g.
	// local changes would be overwritten. The working tree is untouched.
	ErrPullRefused = errors.New("pull refused")
)

// Issue-tracker errors.
var (
	// ErrNetwork is returned for transport failures and exhausted retries.
	ErrNetwork = errors.New("network error")

	// ErrMilestoneNotFound is returned when no milestone has the requested title.
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrTrackerNotConfigured is returned when owner, repo or token are missing.
	ErrTrackerNotConfigured = errors.New("issue tracker not configured")
)

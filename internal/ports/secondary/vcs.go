package secondary

import "context"

// VersionControl defines the secondary port for git operations.
// Implementations never cache; every call observes the repository as it is.
type VersionControl interface {
	// IsRepository reports whether the working directory is inside a repository.
	IsRepository(ctx context.Context) bool

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// IsWorkingTreeClean reports whether there are no uncommitted changes.
	IsWorkingTreeClean(ctx context.Context) (bool, error)

	// BranchExists reports whether a local branch exists.
	BranchExists(ctx context.Context, name string) (bool, error)

	// CreateBranch creates a branch at HEAD. Returns ErrBranchAlreadyExists.
	CreateBranch(ctx context.Context, name string) error

	// Checkout switches to a branch. Returns ErrBranchNotFound.
	Checkout(ctx context.Context, name string) error

	// Pull fetches and merges a remote branch into the current branch.
	// Returns ErrMergeConflict, ErrPullRefused or ErrNetwork.
	Pull(ctx context.Context, remote, branch string) error

	// Push publishes a branch to a remote.
	Push(ctx context.Context, remote, branch string, forceWithLease bool) error

	// Status summarises the current branch against its upstream.
	Status(ctx context.Context) (*VCSStatus, error)
}

// VCSStatus describes the state of the checked-out branch.
type VCSStatus struct {
	Branch       string
	Ahead        int
	Behind       int
	ChangedFiles []string
}

// Package git implements the version-control port on a local git repository.
// Reads go through go-git; mutations and porcelain status run the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/example/devagent/internal/ports/secondary"
)

// Repository implements secondary.VersionControl for the repository that
// contains dir. Nothing is cached between calls.
type Repository struct {
	dir string
}

// New creates a Repository rooted at (or below) dir.
func New(dir string) *Repository {
	return &Repository{dir: dir}
}

func (r *Repository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", r.dir, secondary.ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

// IsRepository reports whether dir is inside a git repository.
func (r *Repository) IsRepository(ctx context.Context) bool {
	_, err := r.open()
	return err == nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD points at a branch with no commits yet.
		out, err := r.output(ctx, "symbolic-ref", "--short", "HEAD")
		if err != nil {
			return "", fmt.Errorf("failed to read HEAD: %w", err)
		}
		return strings.TrimSpace(out), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}

// IsWorkingTreeClean reports whether `git status --porcelain` is empty.
func (r *Repository) IsWorkingTreeClean(ctx context.Context) (bool, error) {
	files, err := r.changedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}

// BranchExists reports whether a local branch exists.
func (r *Repository) BranchExists(ctx context.Context, name string) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// CreateBranch creates a branch at HEAD.
func (r *Repository) CreateBranch(ctx context.Context, name string) error {
	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", name, secondary.ErrBranchAlreadyExists)
	}

	if _, err := r.output(ctx, "branch", name); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Checkout switches to an existing local branch.
func (r *Repository) Checkout(ctx context.Context, name string) error {
	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", name, secondary.ErrBranchNotFound)
	}

	if _, err := r.output(ctx, "checkout", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// Pull merges remote/branch into the current branch. A conflicting merge
// is aborted so the working tree is left as it was. A pull git refuses to
// start leaves nothing to abort.
func (r *Repository) Pull(ctx context.Context, remote, branch string) error {
	out, err := r.combined(ctx, "pull", "--no-rebase", "--no-edit", remote, branch)
	if err == nil {
		return nil
	}

	switch classify(out) {
	case failureConflict:
		if r.mergeInProgress(ctx) {
			_, _ = r.combined(ctx, "merge", "--abort")
		}
		return fmt.Errorf("pull %s/%s: %w", remote, branch, secondary.ErrMergeConflict)
	case failureRefused:
		return fmt.Errorf("pull %s/%s: %w: %s", remote, branch, secondary.ErrPullRefused, firstLine(out))
	case failureNetwork:
		return fmt.Errorf("pull %s/%s: %w: %s", remote, branch, secondary.ErrNetwork, firstLine(out))
	}
	return fmt.Errorf("failed to pull %s/%s: %w: %s", remote, branch, err, strings.TrimSpace(out))
}

func (r *Repository) mergeInProgress(ctx context.Context) bool {
	_, err := r.output(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

// Push publishes branch to remote and sets it as upstream.
func (r *Repository) Push(ctx context.Context, remote, branch string, forceWithLease bool) error {
	args := []string{"push", "--set-upstream"}
	if forceWithLease {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remote, branch)

	out, err := r.combined(ctx, args...)
	if err == nil {
		return nil
	}
	if classify(out) == failureNetwork {
		return fmt.Errorf("push %s/%s: %w: %s", remote, branch, secondary.ErrNetwork, firstLine(out))
	}
	return fmt.Errorf("failed to push %s/%s: %w: %s", remote, branch, err, strings.TrimSpace(out))
}

// Status summarises the current branch against its upstream.
// Ahead and behind are zero when there is no upstream.
func (r *Repository) Status(ctx context.Context) (*secondary.VCSStatus, error) {
	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	files, err := r.changedFiles(ctx)
	if err != nil {
		return nil, err
	}

	status := &secondary.VCSStatus{Branch: branch, ChangedFiles: files}

	// No upstream is not an error condition.
	out, err := r.output(ctx, "rev-list", "--left-right", "--count", "@{u}...HEAD")
	if err != nil {
		return status, nil
	}
	parts := strings.Fields(strings.TrimSpace(out))
	if len(parts) == 2 {
		status.Behind, _ = strconv.Atoi(parts[0])
		status.Ahead, _ = strconv.Atoi(parts[1])
	}
	return status, nil
}

func (r *Repository) changedFiles(ctx context.Context) ([]string, error) {
	out, err := r.output(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to read working tree status: %w", err)
	}
	return parsePorcelain(out), nil
}

// parsePorcelain returns the paths listed by `git status --porcelain`.
func parsePorcelain(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		files = append(files, strings.Trim(path, `"`))
	}
	return files
}

type failure int

const (
	failureOther failure = iota
	failureConflict
	failureRefused
	failureNetwork
)

var conflictMarkers = []string{
	"CONFLICT",
	"Automatic merge failed",
}

var refusedMarkers = []string{
	"would be overwritten by merge",
	"Not possible to fast-forward",
}

var networkMarkers = []string{
	"Could not resolve host",
	"Could not read from remote repository",
	"unable to access",
	"Connection refused",
	"Connection timed out",
	"Operation timed out",
	"does not appear to be a git repository",
}

// classify maps git output to a failure class.
func classify(out string) failure {
	for _, m := range refusedMarkers {
		if strings.Contains(out, m) {
			return failureRefused
		}
	}
	for _, m := range conflictMarkers {
		if strings.Contains(out, m) {
			return failureConflict
		}
	}
	for _, m := range networkMarkers {
		if strings.Contains(out, m) {
			return failureNetwork
		}
	}
	return failureOther
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// output executes a git command and returns the stdout.
func (r *Repository) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// combined executes a git command and returns stdout and stderr together.
// Merge conflicts are reported on stdout, network failures on stderr.
func (r *Repository) combined(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

var _ secondary.VersionControl = (*Repository)(nil)

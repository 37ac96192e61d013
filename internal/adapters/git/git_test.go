package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/devagent/internal/ports/secondary"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// initRepo creates a repository on branch main with one commit and a
// develop branch.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "init", "-q")
	run(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	writeFile(t, dir, "README.md", "hello\n")
	run(t, dir, "add", "README.md")
	run(t, dir, "commit", "-q", "-m", "initial")
	run(t, dir, "branch", "develop")
	return dir
}

// cloneWithRemote creates a bare origin from src and returns a fresh clone.
func cloneWithRemote(t *testing.T, src string) (origin, clone string) {
	t.Helper()
	origin = filepath.Join(t.TempDir(), "origin.git")
	run(t, src, "clone", "-q", "--bare", src, origin)
	clone = filepath.Join(t.TempDir(), "clone")
	run(t, src, "clone", "-q", origin, clone)
	return origin, clone
}

func TestRepository_ReadOperations(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := initRepo(t)
	repo := New(dir)

	assert.True(t, repo.IsRepository(ctx))
	assert.False(t, New(t.TempDir()).IsRepository(ctx))

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	exists, err := repo.BranchExists(ctx, "develop")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BranchExists(ctx, "feature/nope")
	require.NoError(t, err)
	assert.False(t, exists)

	clean, err := repo.IsWorkingTreeClean(ctx)
	require.NoError(t, err)
	assert.True(t, clean)

	writeFile(t, dir, "new.txt", "x")
	clean, err = repo.IsWorkingTreeClean(ctx)
	require.NoError(t, err)
	assert.False(t, clean)

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", status.Branch)
	assert.Equal(t, []string{"new.txt"}, status.ChangedFiles)
	assert.Zero(t, status.Ahead)
	assert.Zero(t, status.Behind)
}

func TestRepository_DetectsRepositoryFromSubdirectory(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	sub := filepath.Join(dir, "pkg", "inner")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	branch, err := New(sub).CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRepository_NotRepository(t *testing.T) {
	requireGit(t)
	_, err := New(t.TempDir()).CurrentBranch(context.Background())
	assert.ErrorIs(t, err, secondary.ErrNotRepository)
}

func TestRepository_CreateAndCheckout(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	repo := New(initRepo(t))

	require.NoError(t, repo.CreateBranch(ctx, "feature/g-abc123-add-login"))
	assert.ErrorIs(t, repo.CreateBranch(ctx, "feature/g-abc123-add-login"), secondary.ErrBranchAlreadyExists)

	require.NoError(t, repo.Checkout(ctx, "feature/g-abc123-add-login"))
	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature/g-abc123-add-login", branch)

	assert.ErrorIs(t, repo.Checkout(ctx, "missing"), secondary.ErrBranchNotFound)
}

func TestRepository_PullAndPush(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	src := initRepo(t)
	_, clone := cloneWithRemote(t, src)
	repo := New(clone)

	require.NoError(t, repo.Pull(ctx, "origin", "main"))

	require.NoError(t, repo.CreateBranch(ctx, "feature/x"))
	require.NoError(t, repo.Checkout(ctx, "feature/x"))
	writeFile(t, clone, "x.txt", "x\n")
	run(t, clone, "add", "x.txt")
	run(t, clone, "commit", "-q", "-m", "x")

	require.NoError(t, repo.Push(ctx, "origin", "feature/x", false))

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Ahead, "upstream is set by push")

	writeFile(t, clone, "y.txt", "y\n")
	run(t, clone, "add", "y.txt")
	run(t, clone, "commit", "-q", "-m", "y")

	status, err = repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Ahead)

	require.NoError(t, repo.Push(ctx, "origin", "feature/x", true))
}

func TestRepository_PullConflict(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	src := initRepo(t)
	origin, first := cloneWithRemote(t, src)

	second := filepath.Join(t.TempDir(), "second")
	run(t, first, "clone", "-q", origin, second)

	writeFile(t, first, "README.md", "from first\n")
	run(t, first, "commit", "-q", "-am", "first")
	run(t, first, "push", "-q", "origin", "main")

	writeFile(t, second, "README.md", "from second\n")
	run(t, second, "commit", "-q", "-am", "second")

	repo := New(second)
	err := repo.Pull(ctx, "origin", "main")
	assert.ErrorIs(t, err, secondary.ErrMergeConflict)

	clean, err := repo.IsWorkingTreeClean(ctx)
	require.NoError(t, err)
	assert.True(t, clean, "conflicting merge is aborted")
	assert.False(t, repo.mergeInProgress(ctx))
}

func TestRepository_PullRefusedKeepsLocalChanges(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	src := initRepo(t)
	origin, first := cloneWithRemote(t, src)

	second := filepath.Join(t.TempDir(), "second")
	run(t, first, "clone", "-q", origin, second)

	writeFile(t, first, "README.md", "from first\n")
	run(t, first, "commit", "-q", "-am", "first")
	run(t, first, "push", "-q", "origin", "main")

	writeFile(t, second, "README.md", "uncommitted\n")

	repo := New(second)
	err := repo.Pull(ctx, "origin", "main")
	assert.ErrorIs(t, err, secondary.ErrPullRefused)
	assert.NotErrorIs(t, err, secondary.ErrMergeConflict)
	assert.False(t, repo.mergeInProgress(ctx))

	content, err := os.ReadFile(filepath.Join(second, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "uncommitted\n", string(content))
}

func TestRepository_PullUnknownRemote(t *testing.T) {
	requireGit(t)
	err := New(initRepo(t)).Pull(context.Background(), "nowhere", "main")
	assert.ErrorIs(t, err, secondary.ErrNetwork)
}

func TestParsePorcelain(t *testing.T) {
	out := " M internal/app/goal_service.go\n?? new.txt\nR  old.go -> renamed.go\n"
	assert.Equal(t, []string{"internal/app/goal_service.go", "new.txt", "renamed.go"}, parsePorcelain(out))
	assert.Empty(t, parsePorcelain(""))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, failureConflict, classify("CONFLICT (content): Merge conflict in README.md"))
	assert.Equal(t, failureNetwork, classify("fatal: unable to access 'https://example.com/': Could not resolve host"))
	assert.Equal(t, failureOther, classify("fatal: refusing to merge unrelated histories"))
	assert.Equal(t, failureRefused, classify("error: Your local changes to the following files would be overwritten by merge:\n\tREADME.md\nAborting"))
	assert.Equal(t, failureRefused, classify("fatal: Not possible to fast-forward, aborting."))
}

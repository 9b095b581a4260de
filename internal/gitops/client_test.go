package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorebouvie/portfoliosync/internal/config"
	"github.com/victorebouvie/portfoliosync/internal/domain"
)

func testClient() *Client {
	return NewClient(config.GitConfig{
		CommitterName:  "Test Committer",
		CommitterEmail: "test@example.com",
		CloneDepth:     1,
		Timeout:        time.Minute,
	}, nil)
}

// requireGitTransport skips tests that go through go-git's file transport,
// which execs the native git pack programs.
func requireGitTransport(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"git-upload-pack", "git-receive-pack"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not in PATH", bin)
		}
	}
}

func testSignature() *object.Signature {
	return &object.Signature{
		Name:  "Fixture",
		Email: "fixture@example.com",
		When:  time.Now(),
	}
}

// initSourceRepo creates a non-bare repository with one commit containing
// the given files.
func initSourceRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	_, err = wt.Commit("initial", &git.CommitOptions{Author: testSignature()})
	require.NoError(t, err)

	return dir
}

func TestClone(t *testing.T) {
	requireGitTransport(t)

	src := initSourceRepo(t, map[string]string{"README.md": "# Foo\n"})
	dest := filepath.Join(t.TempDir(), "clone")

	repo, err := testClient().Clone(context.Background(), src, dest)
	require.NoError(t, err)
	require.NotNil(t, repo)

	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestClone_BadURL(t *testing.T) {
	requireGitTransport(t)

	dest := filepath.Join(t.TempDir(), "clone")

	_, err := testClient().Clone(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), dest)
	require.Error(t, err)

	var gitErr *domain.GitError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "clone", gitErr.Op)
}

func TestStageAllAndCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte("[]\n"), 0644))

	client := testClient()
	require.NoError(t, client.StageAll(repo))

	created, err := client.Commit(repo, "feat: add 'Foo' project to portfolio")
	require.NoError(t, err)
	assert.True(t, created)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "feat: add 'Foo' project to portfolio", commit.Message)
	assert.Equal(t, "Test Committer", commit.Author.Name)
	assert.Equal(t, "test@example.com", commit.Author.Email)
}

func TestCommit_CleanWorktreeIsNoop(t *testing.T) {
	t.Parallel()

	dir := initSourceRepo(t, map[string]string{"projects.json": "[]\n"})
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	created, err := testClient().Commit(repo, "nothing here")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPush(t *testing.T) {
	requireGitTransport(t)

	bareDir := t.TempDir()
	bare, err := git.PlainInit(bareDir, true)
	require.NoError(t, err)

	workDir := initSourceRepo(t, map[string]string{"projects.json": "[]\n"})
	work, err := git.PlainOpen(workDir)
	require.NoError(t, err)
	_, err = work.CreateRemote(&gitconfig.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{bareDir},
	})
	require.NoError(t, err)

	client := testClient()
	require.NoError(t, client.Push(context.Background(), work))

	// The remote now carries the branch
	refs, err := bare.References()
	require.NoError(t, err)
	count := 0
	require.NoError(t, refs.ForEach(func(_ *plumbing.Reference) error {
		count++
		return nil
	}))
	assert.Greater(t, count, 0)
}

func TestPush_AlreadyUpToDate(t *testing.T) {
	requireGitTransport(t)

	bareDir := t.TempDir()
	_, err := git.PlainInit(bareDir, true)
	require.NoError(t, err)

	workDir := initSourceRepo(t, map[string]string{"projects.json": "[]\n"})
	work, err := git.PlainOpen(workDir)
	require.NoError(t, err)
	_, err = work.CreateRemote(&gitconfig.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{bareDir},
	})
	require.NoError(t, err)

	client := testClient()
	require.NoError(t, client.Push(context.Background(), work))
	// Second push has nothing new; NoErrAlreadyUpToDate maps to success
	require.NoError(t, client.Push(context.Background(), work))
}

func TestPush_NoRemote(t *testing.T) {
	t.Parallel()

	dir := initSourceRepo(t, map[string]string{"projects.json": "[]\n"})
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	err = testClient().Push(context.Background(), repo)
	require.Error(t, err)

	var gitErr *domain.GitError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "push", gitErr.Op)
}

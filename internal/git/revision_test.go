package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addFileAndCommit(t *testing.T, repo *git.Repository, repoPath, filename, content string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(repoPath, filename)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, filename), []byte(content), 0o600))
	_, err = wt.Add(filename)
	require.NoError(t, err)
	hash, err := wt.Commit("add "+filename, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestOpenOutsideRepository(t *testing.T) {
	_, ok, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHeadOfEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	repo, ok, err := Open(dir)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = repo.Head()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHeadFollowsNewCommits(t *testing.T) {
	dir := t.TempDir()
	gitRepo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	first := addFileAndCommit(t, gitRepo, dir, "sources/script.js", "x")

	repo, ok, err := Open(filepath.Join(dir, "sources"))
	require.NoError(t, err)
	require.True(t, ok)

	rev, ok, err := repo.Head()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.String(), rev.Commit)
	assert.Equal(t, "master", rev.Branch)
	assert.Equal(t, first.String()[:12], rev.String())

	// Uncommitted edits do not change the revision.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources", "script.js"), []byte("changed"), 0o600))
	rev, _, err = repo.Head()
	require.NoError(t, err)
	assert.Equal(t, first.String(), rev.Commit)

	second := addFileAndCommit(t, gitRepo, dir, "sources/script.js", "y")
	rev, _, err = repo.Head()
	require.NoError(t, err)
	assert.Equal(t, second.String(), rev.Commit)
}

func TestRevisionStringEmpty(t *testing.T) {
	assert.Empty(t, Revision{}.String())
}

package gitsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/internal/config"
)

// initDeclarationRepo builds a local bare-usable repository with one
// committed declaration file and returns its path.
func initDeclarationRepo(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	repo, err := gogit.PlainInit(repoPath, false)
	require.NoError(t, err)

	sourcesDir := filepath.Join(repoPath, "sources")
	require.NoError(t, os.MkdirAll(sourcesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sourcesDir, "internal.yaml"),
		[]byte("name: internal\nlocation: https://nuget.example.com/api/v2\n"), 0644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(".")
	require.NoError(t, err)
	_, err = worktree.Commit("add internal source", &gogit.CommitOptions{
		Author: &object.Signature{Name: "ops", Email: "ops@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return repoPath
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.GitSyncConfig{}, t.TempDir())
	assert.Error(t, err)

	_, err = New(config.GitSyncConfig{URL: "https://git.example.com/decls.git"}, "")
	assert.Error(t, err)
}

func TestSyncer_CloneThenPull(t *testing.T) {
	repoPath := initDeclarationRepo(t)
	destPath := filepath.Join(t.TempDir(), "declarations")

	syncer, err := New(config.GitSyncConfig{URL: repoPath}, destPath)
	require.NoError(t, err)

	// First sync clones.
	changed, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.FileExists(t, filepath.Join(destPath, "sources", "internal.yaml"))

	// Second sync is an up-to-date pull.
	changed, err = syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSyncer_PullPicksUpNewCommits(t *testing.T) {
	repoPath := initDeclarationRepo(t)
	destPath := filepath.Join(t.TempDir(), "declarations")

	syncer, err := New(config.GitSyncConfig{URL: repoPath}, destPath)
	require.NoError(t, err)

	_, err = syncer.Sync(context.Background())
	require.NoError(t, err)

	// Commit a new declaration upstream.
	repo, err := gogit.PlainOpen(repoPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "sources", "mirror.yaml"),
		[]byte("name: mirror\nlocation: https://mirror.example.com/api/v2\n"), 0644))
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(".")
	require.NoError(t, err)
	_, err = worktree.Commit("add mirror source", &gogit.CommitOptions{
		Author: &object.Signature{Name: "ops", Email: "ops@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	changed, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.FileExists(t, filepath.Join(destPath, "sources", "mirror.yaml"))
}

package gitinfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a repository with a single commit.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM python:3.11-slim\n"), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func TestDescribe(t *testing.T) {
	dir := setupTestRepo(t)
	head := runTestGit(t, dir, "rev-parse", "HEAD")

	rev, err := Describe(dir)
	require.NoError(t, err)
	assert.Equal(t, head[:40], rev.Commit)
	assert.False(t, rev.Dirty)
	assert.Equal(t, rev.Commit, rev.String())
}

func TestDescribe_Subdirectory(t *testing.T) {
	dir := setupTestRepo(t)
	sub := filepath.Join(dir, "app")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rev, err := Describe(sub)
	require.NoError(t, err)
	assert.Len(t, rev.Commit, 40)
}

func TestDescribe_Dirty(t *testing.T) {
	dir := setupTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	rev, err := Describe(dir)
	require.NoError(t, err)
	assert.True(t, rev.Dirty)
	assert.Equal(t, rev.Commit+"-dirty", rev.String())
}

func TestDescribe_NotRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	_, err := Describe(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse HEAD failed")
}

func TestDescribe_NoCommits(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	runTestGit(t, dir, "init")

	_, err := Describe(dir)
	assert.Error(t, err)
}

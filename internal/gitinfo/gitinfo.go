// Package gitinfo reads the source revision of a build context from Git.
//
// All commands run through the git binary with -C, so the process working
// directory is never changed.
package gitinfo

import (
	"fmt"
	"os/exec"
	"strings"
)

// Revision identifies the commit a build context was taken from.
type Revision struct {
	// Commit is the full SHA of HEAD.
	Commit string `json:"commit"`

	// Dirty is true when the working tree has uncommitted changes.
	Dirty bool `json:"dirty"`
}

// String returns the commit SHA, suffixed with "-dirty" for modified trees.
func (r Revision) String() string {
	if r.Dirty {
		return r.Commit + "-dirty"
	}
	return r.Commit
}

// Describe returns the revision checked out in the working tree that
// contains dir. It fails when dir is not in a repository or the
// repository has no commits yet.
func Describe(dir string) (*Revision, error) {
	commit, err := runGit(dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}
	status, err := runGit(dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return &Revision{
		Commit: strings.TrimSpace(commit),
		Dirty:  strings.TrimSpace(status) != "",
	}, nil
}

// runGit executes git with args in dir and returns stdout. On failure the
// error includes git's stderr.
func runGit(dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)

	// #nosec G204 -- args are constructed internally
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}
	return stdout.String(), nil
}

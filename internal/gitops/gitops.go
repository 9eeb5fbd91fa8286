// Package gitops versions a data directory with the git command line.
package gitops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is a git working tree holding the books.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at r.Dir.
func (r Repo) Init() error {
	if _, err := r.run("init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether r.Dir is the root of a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// HasChanges reports whether the working tree has uncommitted changes.
func (r Repo) HasChanges() (bool, error) {
	out, err := r.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// CommitAll stages all files and creates a commit. It returns the short
// commit hash, or "" when there was nothing to commit.
func (r Repo) CommitAll(message string) (string, error) {
	if _, err := r.run("add", "-A"); err != nil {
		return "", err
	}
	dirty, err := r.HasChanges()
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	if _, err := r.run("commit", "--quiet", "-m", message, "--author", author); err != nil {
		return "", err
	}
	out, err := r.run("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// run executes git in r.Dir. The committer identity falls back to the
// author so commits work on machines without a global git config.
func (r Repo) run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+r.AuthorName,
		"GIT_COMMITTER_EMAIL="+r.AuthorEmail,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git %s: %s: %w", args[0], bytes.TrimSpace(out), err)
	}
	return out, nil
}

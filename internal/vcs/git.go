// Package vcs initializes version control in a generated project.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/computelabs/create-computelabs-app/internal/output"
)

// InitialCommitMessage is used for the first commit.
const InitialCommitMessage = "Initial commit from create-computelabs-app"

// ErrGitNotFound means no git executable is on PATH.
var ErrGitNotFound = errors.New("git not found in PATH")

// Runner executes git with args in dir and returns its trimmed stdout.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// ExecRunner runs the git binary found on PATH.
func ExecRunner(ctx context.Context, dir string, args ...string) (string, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return "", ErrGitNotFound
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Git drives git through a Runner.
type Git struct {
	Run Runner
}

// New returns a Git using the system binary.
func New() *Git {
	return &Git{Run: ExecRunner}
}

// InitResult reports what Init did.
type InitResult struct {
	Initialized bool
	Committed   bool
}

// Init creates a repository in dir. When commit is true and a git identity
// is configured, all files are committed. A failure to commit after a
// successful init is reported in the error with Initialized set.
func (g *Git) Init(ctx context.Context, dir string, commit bool) (InitResult, error) {
	var res InitResult

	if _, err := g.Run(ctx, dir, "init"); err != nil {
		return res, err
	}
	res.Initialized = true
	output.Debug("initialized git repository", "dir", dir)

	if !commit {
		return res, nil
	}
	if !g.hasIdentity(ctx, dir) {
		output.Debug("skipping initial commit, no git identity configured")
		return res, nil
	}
	if _, err := g.Run(ctx, dir, "add", "-A"); err != nil {
		return res, err
	}
	if _, err := g.Run(ctx, dir, "commit", "--quiet", "-m", InitialCommitMessage); err != nil {
		return res, err
	}
	res.Committed = true
	return res, nil
}

func (g *Git) hasIdentity(ctx context.Context, dir string) bool {
	name, err := g.Run(ctx, dir, "config", "user.name")
	if err != nil || name == "" {
		return false
	}
	email, err := g.Run(ctx, dir, "config", "user.email")
	return err == nil && email != ""
}

// UserName returns the configured git user name, or "" when unavailable.
func (g *Git) UserName(ctx context.Context) string {
	name, err := g.Run(ctx, "", "config", "--get", "user.name")
	if err != nil {
		return ""
	}
	return name
}

// Package gitx drives the local git binary for staging, committing and
// pushing, with support for overriding the author and committer timestamps.
package gitx

import (
	"fmt"
	"os"
	"os/exec"
	"time"
)

// gitDateLayout is the timestamp format git accepts in GIT_AUTHOR_DATE
// and GIT_COMMITTER_DATE.
const gitDateLayout = "2006-01-02 15:04:05"

// Runner executes git operations against a single repository working tree.
// It assumes a single process operates on the repository at a time.
type Runner struct {
	repoPath string
	executor CommandExecutor
}

// NewRunner creates a Runner for the repository at repoPath.
func NewRunner(repoPath string) *Runner {
	return NewRunnerWithExecutor(repoPath, NewExecExecutor())
}

// NewRunnerWithExecutor creates a Runner with a custom command executor.
// Used by tests to avoid invoking the real git binary.
func NewRunnerWithExecutor(repoPath string, executor CommandExecutor) *Runner {
	return &Runner{repoPath: repoPath, executor: executor}
}

// IsRepository reports whether path is inside a git working tree.
func IsRepository(path string) bool {
	return NewRunner(path).IsRepository()
}

// IsRepository asks git itself, which also accepts worktrees and
// gitfile-style .git entries that a plain directory check would miss.
func (r *Runner) IsRepository() bool {
	_, err := r.executor.ExecuteWithOutput(r.command("rev-parse", "--git-dir"))
	return err == nil
}

// Stage adds the file at relPath (relative to the repository root) to the index.
func (r *Runner) Stage(relPath string) error {
	return r.run("add", relPath)
}

// Commit records the staged changes with both the author and committer
// timestamps overridden to ts instead of the wall-clock time.
func (r *Runner) Commit(message string, ts time.Time) error {
	cmd := r.command("commit", "-m", message)
	gitDate := ts.Format(gitDateLayout)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("GIT_AUTHOR_DATE=%s", gitDate),
		fmt.Sprintf("GIT_COMMITTER_DATE=%s", gitDate),
	)
	return r.executor.Execute(cmd)
}

// Push pushes the current branch to its configured remote.
func (r *Runner) Push() error {
	return r.run("push")
}

func (r *Runner) run(args ...string) error {
	return r.executor.Execute(r.command(args...))
}

func (r *Runner) command(args ...string) *exec.Cmd {
	baseArgs := []string{"-C", r.repoPath}
	cmd := exec.Command("git", append(baseArgs, args...)...)
	cmd.Dir = r.repoPath
	return cmd
}

package gitx

import (
	"bytes"
	"os/exec"
)

// CommandExecutor defines an interface for executing commands.
// It exists so tests can substitute a fake for the git binary.
type CommandExecutor interface {
	// Execute runs a command, returning combined diagnostics on failure.
	Execute(cmd *exec.Cmd) error

	// ExecuteWithOutput runs a command and returns its standard output.
	ExecuteWithOutput(cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package.
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.Execute.
func (e *ExecExecutor) Execute(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return newGitError(cmd, err, stderr.String())
	}
	return nil
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput.
func (e *ExecExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", newGitError(cmd, err, stderr.String())
	}
	return stdout.String(), nil
}

func newGitError(cmd *exec.Cmd, err error, output string) *GitError {
	operation := ""
	var args []string
	// Args[0] is the git binary itself; the subcommand follows the -C pair.
	if len(cmd.Args) > 3 {
		operation = cmd.Args[3]
	}
	if len(cmd.Args) > 4 {
		args = cmd.Args[4:]
	}
	return &GitError{
		Operation: operation,
		Args:      args,
		Err:       Wrap(ErrGitOperationFailed, err.Error()),
		Output:    output,
	}
}

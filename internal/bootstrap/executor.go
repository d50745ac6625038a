package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// CommandRunner runs an installer and waits for it to exit.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) (exitCode int, err error)
}

// ExecRunner starts real child processes.
type ExecRunner struct{}

// Run blocks until the process exits. A non-zero exit is reported through
// exitCode, not err; err is only set when the process could not be started
// or waited on.
func (ExecRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

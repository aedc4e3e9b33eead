package engine

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/harmonomino/hxp/internal/codes"
)

// Commander interface for testing
type Commander interface {
	Run() error
}

// Runner executes assembled engine invocations, streaming their output to
// the terminal. The external call blocks with no timeout: a hung engine
// hangs the pipeline, and cancellation is out of scope.
type Runner struct {
	execCommand func(name string, args ...string) Commander
	logger      *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to slog.Default().
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		execCommand: func(name string, args ...string) Commander {
			return exec.Command(name, args...)
		},
		logger: logger,
	}
}

// Run executes one invocation and maps a non-zero exit to a descriptive
// error.
func (r *Runner) Run(sc *ShellCommand) error {
	r.logger.Info("running engine", slog.String("command", sc.String()))

	c := r.execCommand(sc.Path, sc.Args...)
	if cmd, ok := c.(*exec.Cmd); ok {
		cmd.Dir = sc.Dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := c.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if codes.IsSuccess(code) {
				return nil
			}

			return fmt.Errorf("engine failed (exit code %d): %s", code, codes.GetErrorMessage(code))
		}

		return err
	}

	return nil
}

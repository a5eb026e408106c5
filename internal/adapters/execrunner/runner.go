package execrunner

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/Debe2025/epg-fetcher/internal/core/ports"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct{}

// New creates a new Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the command. Unless Capture is set, the child inherits the
// caller's standard streams so live progress stays visible.
func (r *Runner) Run(ctx context.Context, c ports.Command) (ports.RunResult, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var out []byte
	var err error
	if c.Capture {
		out, err = cmd.CombinedOutput()
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err = cmd.Run()
	}

	if err != nil {
		if ctx.Err() != nil {
			return ports.RunResult{Output: out}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ports.RunResult{ExitCode: exitErr.ExitCode(), Output: out}, nil
		}
		return ports.RunResult{Output: out}, err
	}
	return ports.RunResult{Output: out}, nil
}

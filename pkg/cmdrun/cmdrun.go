// Package cmdrun wraps external command execution so callers can be tested
// against canned output instead of a live system.
package cmdrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"opskit/pkg/log"
)

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError reports a failed external command, identifying the command
// line and carrying whatever the tool wrote to stderr.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands on the host. The zero value is ready to use.
type ExecRunner struct{}

// Run executes the command and returns its stdout as a string. A non-zero
// exit or a missing binary yields a CommandError naming the command.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	out, err := cmd.Output()
	if err != nil {
		cmdline := name
		if len(args) > 0 {
			cmdline = name + " " + strings.Join(args, " ")
		}

		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}

		log.Debug().Err(err).Str("command", cmdline).Msg("External command failed")
		return "", CommandError{
			Command: cmdline,
			Stderr:  stderr,
			Err:     err,
		}
	}
	return string(out), nil
}

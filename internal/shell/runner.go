// Package shell runs external tool command lines.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a shell command line and returns its standard output.
type Runner interface {
	Run(ctx context.Context, cmdline string) ([]byte, error)
}

// ExitError reports a command that could not be started or exited non-zero.
type ExitError struct {
	Cmdline string
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%q failed: %v", e.Cmdline, e.Err)
	}
	return fmt.Sprintf("%q failed: %v (%s)", e.Cmdline, e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Sh runs command lines through "sh -c".
type Sh struct{}

// Run executes cmdline through the system shell.
func (Sh) Run(ctx context.Context, cmdline string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, &ExitError{
			Cmdline: cmdline,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return out, nil
}

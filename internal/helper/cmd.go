// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrCommandNotFound = errors.New("command not found")
	ErrCommandTimeout  = errors.New("command timed out")
)

// ExitError is returned when a command ran but exited with a non-zero status
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// CmdOptions ...
type CmdOptions struct {
	Name      string
	Args      []string
	Directory string
	// Timeout of zero means the command may run until ctx is done
	Timeout time.Duration
}

// Cmd wraps an external process invocation
type Cmd struct {
	opts CmdOptions
	path string
}

// NewCmd ...
func NewCmd(opts CmdOptions) *Cmd {
	return &Cmd{opts: opts}
}

// Build resolves the executable on PATH
func (c *Cmd) Build() error {
	path, err := exec.LookPath(c.opts.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", c.opts.Name, ErrCommandNotFound)
	}
	c.path = path
	return nil
}

// String renders the command line for diagnostics
func (c *Cmd) String() string {
	return strings.Join(append([]string{c.opts.Name}, c.opts.Args...), " ")
}

// Execute runs the command and copies its stdout into w. Output produced
// before a non-zero exit is still written to w.
func (c *Cmd) Execute(ctx context.Context, w io.Writer) error {
	if c.path == "" {
		if err := c.Build(); err != nil {
			return err
		}
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	stderr := new(bytes.Buffer)
	cmd := exec.CommandContext(ctx, c.path, c.opts.Args...) // nolint:gosec
	cmd.Dir = c.opts.Directory
	cmd.Stdout = w
	cmd.Stderr = stderr
	// children that inherit stdout must not keep Run blocked past the deadline
	cmd.WaitDelay = 500 * time.Millisecond

	err := cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s after %s: %w", c.String(), c.opts.Timeout, ErrCommandTimeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command: c.String(),
			Code:    exitErr.ExitCode(),
			Stderr:  strings.TrimSpace(stderr.String()),
		}
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", c.String(), err)
	}

	return nil
}

// Output runs the command and returns its stdout
func (c *Cmd) Output(ctx context.Context) (string, error) {
	buffer := new(bytes.Buffer)
	if err := c.Execute(ctx, buffer); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

func TestCmdOutput(t *testing.T) {
	requireShell(t)

	cmd := NewCmd(CmdOptions{Name: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, cmd.Build())

	out, err := cmd.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
	assert.Equal(t, "sh -c echo hello", cmd.String())
}

func TestCmdExitCode(t *testing.T) {
	requireShell(t)

	buffer := new(bytes.Buffer)
	cmd := NewCmd(CmdOptions{Name: "sh", Args: []string{"-c", "echo partial; echo oops >&2; exit 3"}})
	err := cmd.Execute(context.Background(), buffer)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "oops", exitErr.Stderr)
	assert.Equal(t, "partial\n", buffer.String())
}

func TestCmdTimeout(t *testing.T) {
	requireShell(t)

	cmd := NewCmd(CmdOptions{Name: "sh", Args: []string{"-c", "sleep 5"}, Timeout: 50 * time.Millisecond})
	_, err := cmd.Output(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandTimeout)
}

func TestCmdNotFound(t *testing.T) {
	cmd := NewCmd(CmdOptions{Name: "definitely-not-a-command-on-path"})
	assert.ErrorIs(t, cmd.Build(), ErrCommandNotFound)

	_, err := cmd.Output(context.Background())
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

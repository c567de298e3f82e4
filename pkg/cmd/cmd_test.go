package cmd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgxm/pgxm/pkg/cmd"
)

func TestString(t *testing.T) {
	t.Parallel()

	c := cmd.New("docker").Arg("diff").Arg("abc123")
	assert.Equal(t, "docker diff abc123", c.String())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := cmd.New("docker").Arg("rm", "-f", "abc")
	b := cmd.New("docker").Arg("rm", "-f", "abc")
	c := cmd.New("docker").Arg("rm", "-f", "def")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestRunCapturesOutput(t *testing.T) {
	t.Parallel()

	out, err := cmd.New("echo").Arg("hello").Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestRunMissingCommand(t *testing.T) {
	t.Parallel()

	_, err := cmd.New("").Run(context.Background())
	assert.Error(t, err)
}

func TestRunExitNonZero(t *testing.T) {
	t.Parallel()

	// 'false' exits 1 but that is a result, not an error
	_, code, err := cmd.New("false").RunExit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestRunExitZero(t *testing.T) {
	t.Parallel()

	out, code, err := cmd.New("echo").Arg("ok").RunExit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ok")
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cmd.New("sleep").Arg("10").Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

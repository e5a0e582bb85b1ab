package proc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRunner_CapturesOutputAndExitStatus(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	res, err := runner.Run(context.Background(), "sh", []string{"-c", "echo STATES 42; echo oops >&2"}, nil, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "STATES 42\n", string(res.Stdout))
	assert.Equal(t, "oops\n", string(res.Stderr))
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestOSRunner_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	res, err := runner.Run(context.Background(), "sh", []string{"-c", "exit 3"}, nil, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestOSRunner_FeedsStdin(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	res, err := runner.Run(context.Background(), "cat", nil, []byte("system:example\n"), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "system:example\n", string(res.Stdout))
}

func TestOSRunner_TimeoutKillsTheProcess(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	start := time.Now()
	res, err := runner.Run(context.Background(), "sleep", []string{"60"}, nil, 100*time.Millisecond)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, res)
	assert.Less(t, time.Since(start), 10*time.Second, "the runner must not wait for the child's natural exit")
}

func TestOSRunner_TimeoutReachesDescendants(t *testing.T) {
	t.Parallel()

	// The shell spawns a grandchild; killing the process group must end
	// the whole invocation promptly.
	var runner OSRunner
	start := time.Now()
	_, err := runner.Run(context.Background(), "sh", []string{"-c", "sleep 60 & wait"}, nil, 100*time.Millisecond)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestOSRunner_LaunchFailureIsDistinctFromTimeout(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	res, err := runner.Run(context.Background(), "definitely-not-a-real-binary", nil, nil, time.Second)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.NotErrorIs(t, err, ErrTimeout)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "definitely-not-a-real-binary", launchErr.Cmd)
}

func TestOSRunner_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var runner OSRunner
	_, err := runner.Run(ctx, "sleep", []string{"60"}, nil, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOSRunner_NoTimeoutBound(t *testing.T) {
	t.Parallel()

	var runner OSRunner
	res, err := runner.Run(context.Background(), "sh", []string{"-c", "echo done"}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(res.Stdout))
}

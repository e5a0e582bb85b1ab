// Package proc runs external commands under a hard wall-clock bound,
// capturing their output and exit status. On timeout the child's whole
// process group is killed so runaway descendants do not leak into the
// next measurement.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// ErrTimeout is returned when a command is still running once its
// wall-clock budget elapses. It is never conflated with a launch failure.
var ErrTimeout = errors.New("process timed out")

// LaunchError reports a command that could not be started at all, for
// example a missing executable or a permission problem.
type LaunchError struct {
	Cmd string
	Err error
}

// Error implements the error interface for LaunchError.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %q: %v", e.Cmd, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *LaunchError) Unwrap() error { return e.Err }

// Result captures one completed process invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// OSRunner invokes commands on the local host. The zero value is ready to
// use; the engine runs strictly one process at a time.
type OSRunner struct{}

// Run executes name with args, feeding stdin to the child when non-nil and
// capturing stdout and stderr fully. A timeout greater than zero bounds the
// child's wall-clock time; on expiry the process group is SIGKILLed and
// ErrTimeout is returned. A non-zero exit status is not an error here: it
// is reported through Result.ExitCode.
func (OSRunner) Run(ctx context.Context, name string, args []string, stdin []byte, timeout time.Duration) (*Result, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	// Run the child in its own process group so a timeout kill reaches its
	// descendants as well.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Cmd: name, Err: err}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case err := <-done:
		res := &Result{
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			Duration: time.Since(start),
		}
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, err
			}
			res.ExitCode = exitErr.ExitCode()
		}
		return res, nil
	case <-expired:
		killGroup(cmd)
		<-done
		return nil, ErrTimeout
	case <-ctx.Done():
		killGroup(cmd)
		<-done
		return nil, ctx.Err()
	}
}

// killGroup forcibly terminates the command's process group, falling back
// to killing the lone process when the group signal fails.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

// Package engine drives the benchmark sweep. It expands each model's
// parameter matrix, generates instances, consults the per-(model, program)
// skip tracker, runs programs under the global timeout, and accumulates
// every outcome into the result tree.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/benchrig/internal/ctxlog"
	"github.com/vk/benchrig/internal/matrix"
	"github.com/vk/benchrig/internal/proc"
	"github.com/vk/benchrig/internal/result"
	"github.com/vk/benchrig/internal/skip"
	"github.com/vk/benchrig/internal/spec"
	"github.com/vk/benchrig/internal/stats"
)

// Runner abstracts bounded-time process execution so tests can substitute
// a fake for the OS-backed implementation in proc.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte, timeout time.Duration) (*proc.Result, error)
}

// Engine executes one benchmark specification over the selected model and
// program sets, strictly sequentially.
type Engine struct {
	spec     *spec.Benchmark
	models   []*spec.Model
	programs []*spec.Program
	runner   Runner
}

// New creates an engine for the given specification. The model and program
// slices are the already-filtered selections, in declaration order.
func New(b *spec.Benchmark, models []*spec.Model, programs []*spec.Program, runner Runner) *Engine {
	return &Engine{spec: b, models: models, programs: programs, runner: runner}
}

// Run executes every (model, program, instance) combination and returns the
// completed result tree. A timed-out or failed run is recorded and the
// sweep continues; only context cancellation or an internal invariant
// violation aborts it.
func (e *Engine) Run(ctx context.Context) (*result.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	tree := result.NewTree(e.spec.Name)
	for _, model := range e.models {
		tuples := matrix.Expand(model.Matrix)
		logger.Info("Sweeping model.",
			"model", model.Name, "instances", len(tuples), "programs", len(e.programs))
		builds := newBuildCache(e.runner, model, e.spec.Timeout)
		for _, program := range e.programs {
			// Skip state never leaks across models or programs.
			tracker := skip.NewTracker(e.spec.SkipOnTimeout, model.ResetSkip)
			for i, tuple := range tuples {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				key := spec.InstanceKey(model.Name, tuple)
				entry := e.evaluate(ctx, builds, tracker, program, i, tuple, key)
				if err := tree.Add(key, program.Name, entry); err != nil {
					return nil, err
				}
			}
		}
	}
	return tree, nil
}

// evaluate produces the outcome entry for one (instance, program) pair and
// advances the skip tracker.
func (e *Engine) evaluate(ctx context.Context, builds *buildCache, tracker *skip.Tracker,
	program *spec.Program, instance int, tuple []string, key string) result.Entry {

	logger := ctxlog.FromContext(ctx)

	if tracker.ShouldSkip(tuple) {
		tracker.Observe(tuple, false)
		logger.Info("Skipping after earlier timeout.", "instance", key, "program", program.Name)
		return result.NewEntry(result.StatusSkipped, nil)
	}

	input, err := builds.instance(ctx, instance, tuple)
	if err != nil {
		tracker.Observe(tuple, false)
		logger.Error("Instance generation failed.", "instance", key, "error", err)
		return result.NewEntry(result.StatusError, nil)
	}

	res, err := e.runner.Run(ctx, program.Cmd, program.Args, input, e.spec.Timeout)
	switch {
	case errors.Is(err, proc.ErrTimeout):
		tracker.Observe(tuple, true)
		logger.Info("Run timed out.",
			"instance", key, "program", program.Name, "timeout", e.spec.Timeout)
		return result.NewEntry(result.StatusTimeout, nil)
	case err != nil:
		tracker.Observe(tuple, false)
		logger.Error("Run failed.", "instance", key, "program", program.Name, "error", err)
		return result.NewEntry(result.StatusError, nil)
	case res.ExitCode != 0:
		tracker.Observe(tuple, false)
		logger.Error("Program exited abnormally.",
			"instance", key, "program", program.Name, "exit_code", res.ExitCode)
		return result.NewEntry(result.StatusError, nil)
	}
	tracker.Observe(tuple, false)

	values, missing := stats.Extract(stats.Parse(string(res.Stdout)), program.Stats)
	for _, name := range missing {
		logger.Warn("Requested stat not found in program output.",
			"stat", name, "instance", key, "program", program.Name)
	}
	logger.Info("Run succeeded.",
		"instance", key, "program", program.Name, "duration", res.Duration)
	return result.NewEntry(result.StatusSuccess, values)
}

// buildCache memoizes generated instances so the program-outer iteration
// order does not re-run the model generator once per program.
type buildCache struct {
	runner  Runner
	model   *spec.Model
	timeout time.Duration
	outputs map[int][]byte
	errs    map[int]error
}

func newBuildCache(runner Runner, model *spec.Model, timeout time.Duration) *buildCache {
	return &buildCache{
		runner:  runner,
		model:   model,
		timeout: timeout,
		outputs: make(map[int][]byte),
		errs:    make(map[int]error),
	}
}

// instance returns the generator output for the i-th tuple, building it on
// first use. Failures are memoized too: every program sees the same error
// for a broken instance instead of re-triggering the generator.
func (c *buildCache) instance(ctx context.Context, i int, tuple []string) ([]byte, error) {
	if out, ok := c.outputs[i]; ok {
		return out, nil
	}
	if err, ok := c.errs[i]; ok {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	args := make([]string, 0, len(c.model.Args)+len(tuple))
	args = append(args, c.model.Args...)
	args = append(args, tuple...)
	logger.Info("Building instance.", "model", c.model.Name, "args", args)

	res, err := c.runner.Run(ctx, c.model.Cmd, args, nil, c.timeout)
	if err != nil {
		c.errs[i] = fmt.Errorf("building instance: %w", err)
		return nil, c.errs[i]
	}
	if res.ExitCode != 0 {
		c.errs[i] = fmt.Errorf("model generator exited with code %d", res.ExitCode)
		return nil, c.errs[i]
	}
	c.outputs[i] = res.Stdout
	return res.Stdout, nil
}

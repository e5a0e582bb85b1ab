package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/benchrig/internal/ctxlog"
	"github.com/vk/benchrig/internal/engine"
	"github.com/vk/benchrig/internal/proc"
	"github.com/vk/benchrig/internal/spec"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Results go to outW (or the configured output file), logs to
// the logger built from the config.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	spec     *spec.Benchmark
	models   []*spec.Model
	programs []*spec.Program
	runner   engine.Runner
}

// NewApp is the constructor for the main application. It loads and
// validates the specification through the given loader and resolves the
// model/program filters. A fatal configuration problem panics; cmd/cli
// recovers it into a clean exit message. An optional runner substitutes
// the OS-backed process runner, primarily for testing.
func NewApp(outW, logW io.Writer, cfg *Config, loader spec.Loader, runner ...engine.Runner) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	benchmark, err := loader.Load(ctx, cfg.SpecPath)
	if err != nil {
		// A failure to load the specification is a fatal startup error.
		panic(fmt.Errorf("failed to load specification: %w", err))
	}
	if err := benchmark.Validate(); err != nil {
		panic(fmt.Errorf("invalid specification %s: %w", cfg.SpecPath, err))
	}
	models, err := benchmark.SelectModels(cfg.Models)
	if err != nil {
		panic(err)
	}
	programs, err := benchmark.SelectPrograms(cfg.Programs)
	if err != nil {
		panic(err)
	}
	logger.Debug("Specification loaded and validated.",
		"name", benchmark.Name, "models", len(models), "programs", len(programs))

	r := engine.Runner(proc.OSRunner{})
	if len(runner) > 0 {
		r = runner[0]
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		spec:     benchmark,
		models:   models,
		programs: programs,
		runner:   r,
	}
}

// Benchmark returns the loaded specification. This is primarily for testing.
func (a *App) Benchmark() *spec.Benchmark {
	return a.spec
}

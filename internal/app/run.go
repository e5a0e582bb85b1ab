package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/benchrig/internal/ctxlog"
	"github.com/vk/benchrig/internal/engine"
	"github.com/vk/benchrig/internal/result"
)

// Run executes the benchmark sweep and writes the result document.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	eng := engine.New(a.spec, a.models, a.programs, a.runner)
	tree, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("benchmark execution failed: %w", err)
	}

	if err := a.writeResult(tree); err != nil {
		return err
	}
	a.logger.Info("Benchmark finished.", "name", tree.Name, "instances", len(tree.Stats))

	a.logger.Debug("App.Run method finished.")
	return nil
}

// writeResult emits the tree to the configured output file, or to the
// app's output writer when none is set.
func (a *App) writeResult(tree *result.Tree) error {
	if a.config.OutputPath == "" {
		return tree.Encode(a.outW)
	}
	f, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := tree.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}

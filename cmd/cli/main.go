package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/benchrig/internal/app"
	"github.com/vk/benchrig/internal/cli"
	"github.com/vk/benchrig/internal/hclspec"
	"github.com/vk/benchrig/internal/jsonspec"
	"github.com/vk/benchrig/internal/spec"
)

// main is the entrypoint for the benchrig application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Results go to outW, logs and diagnostics to logW.
func run(outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, logW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on fatal configuration errors, so we recover here to
	// provide a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup failed: %v", r)
		}
	}()

	benchrigApp := app.NewApp(outW, logW, appConfig, loaderFor(appConfig.SpecPath))

	return benchrigApp.Run(context.Background())
}

// loaderFor picks the specification loader from the file extension: .json
// selects the benchtools-compatible JSON format, everything else parses as
// HCL.
func loaderFor(path string) spec.Loader {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonspec.NewLoader()
	}
	return hclspec.NewLoader()
}

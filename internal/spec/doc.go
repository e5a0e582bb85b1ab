// Package spec defines the format-agnostic benchmark specification model,
// its load-time validation, and the Loader interface implemented by the
// format-specific packages (hclspec, jsonspec).
//
// The spec.Benchmark is the single source of truth for the engine: it is
// immutable once validated and owned by the scheduler for the duration of
// the sweep.
package spec

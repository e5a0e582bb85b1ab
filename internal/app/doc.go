// Package app wires the application together: it builds the logger, loads
// and validates the benchmark specification, resolves the model and program
// filters, runs the engine, and writes the result document.
package app

// Package hclspec provides the HCL implementation of the spec.Loader
// interface. It parses benchmark specification files written as `model`
// and `program` blocks and translates them into the format-agnostic model.
package hclspec

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/benchrig/internal/ctxlog"
	"github.com/vk/benchrig/internal/spec"
)

// Loader reads HCL specification files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses the file at path and translates it into the format-agnostic
// model. Blocks keep their declaration order.
func (l *Loader) Load(ctx context.Context, path string) (*spec.Benchmark, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	var root benchmarkSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	b := &spec.Benchmark{
		Name:    root.Name,
		Timeout: time.Duration(root.Timeout * float64(time.Second)),
	}
	if root.SkipOnTimeout != nil {
		b.SkipOnTimeout = *root.SkipOnTimeout
	}
	for _, m := range root.Models {
		matrix, err := matrixFromExpression(m.Matrix)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
		resetSkip := spec.NoResetSkip
		if m.ResetSkip != nil {
			resetSkip = *m.ResetSkip
		}
		b.Models = append(b.Models, &spec.Model{
			Name:      m.Name,
			Cmd:       m.Cmd,
			Args:      m.Args,
			Matrix:    matrix,
			ResetSkip: resetSkip,
		})
	}
	for _, p := range root.Programs {
		b.Programs = append(b.Programs, &spec.Program{
			Name:  p.Name,
			Cmd:   p.Cmd,
			Args:  p.Args,
			Stats: p.Stats,
		})
	}

	logger.Debug("HCL specification loaded.",
		"path", path, "models", len(b.Models), "programs", len(b.Programs))
	return b, nil
}

// matrixFromExpression evaluates a matrix attribute and converts it to the
// engine's [][]string form. Cells may be written as strings or numbers;
// cty conversion renders them all as strings.
func matrixFromExpression(expr hcl.Expression) ([][]string, error) {
	if expr == nil {
		return nil, nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid 'matrix' expression: %w", diags)
	}
	if value.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(value, cty.List(cty.List(cty.String)))
	if err != nil {
		return nil, fmt.Errorf("'matrix' must be a list of value lists: %w", err)
	}
	var matrix [][]string
	for _, columnVal := range converted.AsValueSlice() {
		column := []string{}
		for _, cell := range columnVal.AsValueSlice() {
			column = append(column, cell.AsString())
		}
		matrix = append(matrix, column)
	}
	return matrix, nil
}

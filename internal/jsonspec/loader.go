// Package jsonspec provides the JSON implementation of the spec.Loader
// interface. The format matches the classic benchtools layout: top-level
// name/timeout/skip_on_timeout attributes plus "models" and "programs"
// objects keyed by name.
package jsonspec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vk/benchrig/internal/ctxlog"
	"github.com/vk/benchrig/internal/spec"
)

// Loader reads JSON specification files.
type Loader struct{}

// NewLoader creates a new JSON loader.
func NewLoader() *Loader {
	return &Loader{}
}

type benchmarkFile struct {
	Name          string                  `json:"name"`
	Timeout       float64                 `json:"timeout"`
	SkipOnTimeout bool                    `json:"skip_on_timeout"`
	Models        map[string]*modelFile   `json:"models"`
	Programs      map[string]*programFile `json:"programs"`
}

type modelFile struct {
	Cmd       string     `json:"cmd"`
	Args      []string   `json:"args"`
	Matrix    [][]string `json:"matrix"`
	ResetSkip *int       `json:"reset_skip"`
}

type programFile struct {
	Cmd   string   `json:"cmd"`
	Args  []string `json:"args"`
	Stats []string `json:"stats"`
}

// Load reads the file at path and translates it into the format-agnostic
// model. Models and programs keep their declaration order from the file,
// matching the insertion-ordered object semantics the format relies on.
func (l *Loader) Load(ctx context.Context, path string) (*spec.Benchmark, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	var file benchmarkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	modelOrder, err := objectKeyOrder(data, "models")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	programOrder, err := objectKeyOrder(data, "programs")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	b := &spec.Benchmark{
		Name:          file.Name,
		Timeout:       time.Duration(file.Timeout * float64(time.Second)),
		SkipOnTimeout: file.SkipOnTimeout,
	}
	for _, name := range modelOrder {
		m := file.Models[name]
		if m == nil {
			continue
		}
		resetSkip := spec.NoResetSkip
		if m.ResetSkip != nil {
			resetSkip = *m.ResetSkip
		}
		b.Models = append(b.Models, &spec.Model{
			Name:      name,
			Cmd:       m.Cmd,
			Args:      m.Args,
			Matrix:    m.Matrix,
			ResetSkip: resetSkip,
		})
	}
	for _, name := range programOrder {
		p := file.Programs[name]
		if p == nil {
			continue
		}
		b.Programs = append(b.Programs, &spec.Program{
			Name:  name,
			Cmd:   p.Cmd,
			Args:  p.Args,
			Stats: p.Stats,
		})
	}

	logger.Debug("JSON specification loaded.",
		"path", path, "models", len(b.Models), "programs", len(b.Programs))
	return b, nil
}

// objectKeyOrder walks the document's tokens and returns the keys of the
// top-level object named field in declaration order. encoding/json maps
// forget that order, and the engine must visit models and programs as the
// author listed them.
func objectKeyOrder(data []byte, field string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key, _ := keyTok.(string); key != field {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}
		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := open.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("%q is not an object", field)
		}
		var keys []string
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			keys = append(keys, key)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return keys, nil
	}
	return nil, nil
}

// skipValue consumes one JSON value, descending into nested containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && (delim == '{' || delim == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		_, err := dec.Token()
		return err
	}
	return nil
}

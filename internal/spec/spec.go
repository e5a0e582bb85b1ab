package spec

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// NoResetSkip marks a model that has no reset_skip column configured.
const NoResetSkip = -1

// Benchmark is the validated, format-agnostic benchmark specification.
type Benchmark struct {
	Name          string
	Timeout       time.Duration
	SkipOnTimeout bool
	Models        []*Model
	Programs      []*Program
}

// Model describes one parameterized instance generator: an external command
// plus the parameter matrix whose cartesian product defines its instances.
type Model struct {
	Name string
	Cmd  string
	Args []string

	// Matrix is an ordered list of value columns. The expander enumerates
	// its cartesian product with the first column varying slowest.
	Matrix [][]string

	// ResetSkip is the matrix column whose value change cancels an active
	// skip-on-timeout state, or NoResetSkip.
	ResetSkip int
}

// Program describes one executable under measurement and the statistic
// names to extract from its output.
type Program struct {
	Name  string
	Cmd   string
	Args  []string
	Stats []string
}

// Loader is the interface for a format-specific specification loader.
type Loader interface {
	// Load reads a specification file and translates it into the
	// format-agnostic model. The result is not yet validated.
	Load(ctx context.Context, path string) (*Benchmark, error)
}

// Validate checks the structural invariants the engine relies on. A
// violation is a fatal configuration error: the engine refuses to start
// rather than silently default.
func (b *Benchmark) Validate() error {
	if b.Name == "" {
		return errors.New("'name' is a required specification field and cannot be empty")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("'timeout' must be a positive number of seconds, got %v", b.Timeout.Seconds())
	}
	seenModels := make(map[string]bool, len(b.Models))
	for _, m := range b.Models {
		if m.Name == "" {
			return errors.New("a model block is missing its name")
		}
		if seenModels[m.Name] {
			return fmt.Errorf("model %q is declared more than once", m.Name)
		}
		seenModels[m.Name] = true
		if m.Cmd == "" {
			return fmt.Errorf("model %q: 'cmd' cannot be empty", m.Name)
		}
		if m.ResetSkip != NoResetSkip && (m.ResetSkip < 0 || m.ResetSkip >= len(m.Matrix)) {
			return fmt.Errorf("model %q: 'reset_skip' is %d but must index one of the %d matrix columns",
				m.Name, m.ResetSkip, len(m.Matrix))
		}
	}
	seenPrograms := make(map[string]bool, len(b.Programs))
	for _, p := range b.Programs {
		if p.Name == "" {
			return errors.New("a program block is missing its name")
		}
		if seenPrograms[p.Name] {
			return fmt.Errorf("program %q is declared more than once", p.Name)
		}
		seenPrograms[p.Name] = true
		if p.Cmd == "" {
			return fmt.Errorf("program %q: 'cmd' cannot be empty", p.Name)
		}
	}
	return nil
}

// SelectModels resolves a model-name filter against the specification,
// preserving declaration order. An empty filter selects every model; a name
// that matches no model is a configuration error.
func (b *Benchmark) SelectModels(names []string) ([]*Model, error) {
	if len(names) == 0 {
		return b.Models, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var selected []*Model
	for _, m := range b.Models {
		if wanted[m.Name] {
			selected = append(selected, m)
			delete(wanted, m.Name)
		}
	}
	if len(wanted) > 0 {
		return nil, fmt.Errorf("model filter names unknown models: %s", strings.Join(sortedKeys(wanted), ", "))
	}
	return selected, nil
}

// SelectPrograms resolves a program-name filter, with the same semantics as
// SelectModels.
func (b *Benchmark) SelectPrograms(names []string) ([]*Program, error) {
	if len(names) == 0 {
		return b.Programs, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var selected []*Program
	for _, p := range b.Programs {
		if wanted[p.Name] {
			selected = append(selected, p)
			delete(wanted, p.Name)
		}
	}
	if len(wanted) > 0 {
		return nil, fmt.Errorf("program filter names unknown programs: %s", strings.Join(sortedKeys(wanted), ", "))
	}
	return selected, nil
}

// InstanceKey derives the output-tree row key for one instantiation of a
// model: the model name, a space, then the tuple values space-separated.
func InstanceKey(model string, tuple []string) string {
	return model + " " + strings.Join(tuple, " ")
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

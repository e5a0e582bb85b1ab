// Package result holds the output statistics tree accumulated during a
// sweep and its JSON encoding, the contract consumed by the table-rendering
// tooling downstream.
package result

import (
	"encoding/json"
	"fmt"
	"io"
)

// Status values recorded for every run.
const (
	StatusSuccess = "success"
	StatusTimeout = "timeout"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Entry is the record for one (instance, program) pair: the mandatory
// "status" field plus any extracted statistic values.
type Entry map[string]string

// NewEntry builds an entry with the given status and statistic values.
func NewEntry(status string, values map[string]string) Entry {
	e := make(Entry, len(values)+1)
	for name, value := range values {
		e[name] = value
	}
	e["status"] = status
	return e
}

// Status returns the entry's status field.
func (e Entry) Status() string { return e["status"] }

// Tree is the complete output document: the benchmark name and a mapping
// instance key -> program name -> entry. It is append-only during a sweep.
type Tree struct {
	Name  string                      `json:"name"`
	Stats map[string]map[string]Entry `json:"stats"`
}

// NewTree returns an empty tree for the named benchmark.
func NewTree(name string) *Tree {
	return &Tree{Name: name, Stats: make(map[string]map[string]Entry)}
}

// Add records the entry for one (instance, program) pair. Every pair must
// appear exactly once per sweep, so adding a duplicate is rejected.
func (t *Tree) Add(instanceKey, program string, e Entry) error {
	row, ok := t.Stats[instanceKey]
	if !ok {
		row = make(map[string]Entry)
		t.Stats[instanceKey] = row
	}
	if _, dup := row[program]; dup {
		return fmt.Errorf("duplicate result for instance %q, program %q", instanceKey, program)
	}
	row[program] = e
	return nil
}

// Encode writes the tree as a JSON document to w. Object keys are emitted
// in sorted order, so re-running an identical sweep produces an identical
// document.
func (t *Tree) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(t)
}

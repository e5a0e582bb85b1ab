package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	out := &bytes.Buffer{}
	logOut := &bytes.Buffer{}

	err := run(out, logOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logOut.String(), "Usage:", "expected help text to be printed")
}

func TestRun_InvalidSpecificationFailsCleanly(t *testing.T) {
	t.Parallel()

	// A spec with reset_skip out of range must refuse to start; the app's
	// startup panic is recovered into a plain error.
	specText := `{
		"name": "broken",
		"timeout": 10,
		"models": {"A": {"cmd": "./gen.sh", "matrix": [["1"]], "reset_skip": 5}},
		"programs": {}
	}`
	path := filepath.Join(t.TempDir(), "bench.json")
	require.NoError(t, os.WriteFile(path, []byte(specText), 0600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset_skip")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	// A real sweep with shell one-liners as generator and program.
	specText := `{
		"name": "smoke",
		"timeout": 30,
		"models": {"echo": {"cmd": "echo", "args": ["system:"], "matrix": [["1", "2"]]}},
		"programs": {"wc": {"cmd": "sh", "args": ["-c", "echo LINES $(wc -l)"], "stats": ["LINES"]}}
	}`
	dir := t.TempDir()
	specPath := filepath.Join(dir, "bench.json")
	require.NoError(t, os.WriteFile(specPath, []byte(specText), 0600))
	outPath := filepath.Join(dir, "results.json")

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"-o", outPath, "-log-level", "error", specPath})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc struct {
		Name  string                                  `json:"name"`
		Stats map[string]map[string]map[string]string `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "smoke", doc.Name)
	require.Len(t, doc.Stats, 2)
	for _, key := range []string{"echo 1", "echo 2"} {
		entry := doc.Stats[key]["wc"]
		require.NotNil(t, entry, "missing entry for %q", key)
		assert.Equal(t, "success", entry["status"])
		assert.Equal(t, "1", entry["LINES"])
	}
}

func TestLoaderFor(t *testing.T) {
	t.Parallel()

	assert.IsType(t, loaderFor("bench.json"), loaderFor("BENCH.JSON"))
	assert.NotEqual(t, loaderFor("bench.json"), loaderFor("bench.hcl"))
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"bench.json"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "bench.json", cfg.SpecPath)
	assert.Empty(t, cfg.OutputPath)
	assert.Empty(t, cfg.Models)
	assert.Empty(t, cfg.Programs)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-o", "results.json",
		"-models", "csma, fischer",
		"-programs", "reach",
		"-log-format", "json",
		"-log-level", "debug",
		"bench.hcl",
	}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "bench.hcl", cfg.SpecPath)
	assert.Equal(t, "results.json", cfg.OutputPath)
	assert.Equal(t, []string{"csma", "fischer"}, cfg.Models)
	assert.Equal(t, []string{"reach"}, cfg.Programs)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"invalid log format", []string{"-log-format", "xml", "bench.json"}, "invalid log-format"},
		{"invalid log level", []string{"-log-level", "loud", "bench.json"}, "invalid log-level"},
		{"multiple paths", []string{"a.json", "b.json"}, "exactly one"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bnb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Solver.BranchFirst)
	assert.Equal(t, 1, cfg.Solver.Jobs)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_file(t *testing.T) {
	path := writeConfig(t, `
solver:
  branch_first: 0
  node_limit: 500
  time_limit: 2s
  jobs: 4
log:
  level: debug
output:
  format: json
  dot_dir: trees
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0, cfg.Solver.BranchFirst)
	assert.Equal(t, 500, cfg.Solver.NodeLimit)
	assert.Equal(t, 2*time.Second, cfg.Solver.TimeLimit)
	assert.Equal(t, 4, cfg.Solver.Jobs)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "trees", cfg.Output.DotDir)
}

func TestLoad_envOverridesFile(t *testing.T) {
	path := writeConfig(t, "solver:\n  jobs: 4\n  verify: false\n")
	t.Setenv("BNB_JOBS", "8")
	t.Setenv("BNB_VERIFY", "true")
	t.Setenv("BNB_TIME_LIMIT", "150ms")
	t.Setenv("BNB_LOG_LEVEL", "info")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Solver.Jobs)
	assert.True(t, cfg.Solver.Verify)
	assert.Equal(t, 150*time.Millisecond, cfg.Solver.TimeLimit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "solver: [1, 2"))
		assert.Error(t, err)
	})
	t.Run("malformed env", func(t *testing.T) {
		t.Setenv("BNB_NODE_LIMIT", "many")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BNB_NODE_LIMIT")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "branch first out of range", mutate: func(c *Config) { c.Solver.BranchFirst = 2 }},
		{name: "negative node limit", mutate: func(c *Config) { c.Solver.NodeLimit = -1 }},
		{name: "negative time limit", mutate: func(c *Config) { c.Solver.TimeLimit = -time.Second }},
		{name: "no jobs", mutate: func(c *Config) { c.Solver.Jobs = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		{name: "unknown output", mutate: func(c *Config) { c.Output.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

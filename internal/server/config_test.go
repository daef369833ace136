package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
server {
  log_level = "debug"
}

game {
  reaction_window_ms = 5000
  seed               = 42
}
`)
	cfg, err := ParseConfig(data, "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5000, cfg.Game.ReactionWindowMs)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 5*time.Second, cfg.Game.ReactionWindow())
}

func TestParseConfigFillsDefaults(t *testing.T) {
	data := []byte(`
server {}

game {}
`)
	cfg, err := ParseConfig(data, "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 30000, cfg.Game.ReactionWindowMs)
	assert.Equal(t, int64(0), cfg.Game.Seed)
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	_, err := ParseConfig([]byte(`server { log_level = `), "broken.hcl")
	assert.Error(t, err, "syntax error")

	_, err = ParseConfig([]byte(`
server {
  log_level = "loud"
}

game {}
`), "test.hcl")
	assert.ErrorContains(t, err, "invalid log_level")

	_, err = ParseConfig([]byte(`
server {}

game {
  reaction_window_ms = -1
}
`), "test.hcl")
	assert.ErrorContains(t, err, "reaction_window_ms")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coup.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  log_level = "warn"
}

game {
  reaction_window_ms = 100
}
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, 100*time.Millisecond, cfg.Game.ReactionWindow())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

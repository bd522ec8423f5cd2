package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"views": 3, "source": "remote"}`), 0644))

	cfg := LoadFrom(path)
	assert.Equal(t, 3, cfg.Views)
	assert.Equal(t, SourceRemote, cfg.Source)
	assert.Equal(t, float32(0.25), cfg.DampingFactor)
	assert.Equal(t, 3000, cfg.ServerPort)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"views": `), 0644))

	assert.Equal(t, DefaultConfig(), LoadFrom(path))
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Continuous = true
	cfg.FOV = 45

	require.NoError(t, cfg.SaveTo(path))
	assert.Equal(t, cfg, LoadFrom(path))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 64*1024, cfg.BufferSizeBytes)
	require.False(t, cfg.Verbose)
	require.False(t, cfg.CompressDefault)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "car.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bufferSizeBytes: 4096\nverbose: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.BufferSizeBytes)
	require.True(t, cfg.Verbose)
	require.False(t, cfg.CompressDefault)
}

func TestLoadMissingExplicitFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/car.yaml")
	require.Error(t, err)
}

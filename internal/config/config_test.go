package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".streak-keeper.ini")
	t.Setenv("GITHUB_TOKEN", "")

	cfg := Config{Token: "ghp_testtoken", Path: path}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ghp_testtoken", loaded.Token)
	assert.Equal(t, path, loaded.Path)
	assert.NoError(t, loaded.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Token)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".streak-keeper.ini")
	require.NoError(t, Config{Token: "from-file", Path: path}.Save())

	t.Setenv("GITHUB_TOKEN", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
}

func TestConfig_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".streak-keeper.ini")
	require.NoError(t, Config{Token: "abc123", Path: path}.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[github]")
	assert.Contains(t, string(raw), "token")
}

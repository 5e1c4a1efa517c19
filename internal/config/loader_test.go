package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nativeos.json"))

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 120, cfg.Invoker.TimeoutSeconds)
	assert.True(t, cfg.History.Enabled)
	assert.False(t, cfg.Gateway.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Cron)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nativeos.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"data_dir": "`+dir+`",
		"logging": {"level": "debug"},
		"invoker": {"timeout_seconds": 30},
		"gateway": {"enabled": true, "port": 9999}
	}`), 0o644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Invoker.TimeoutSeconds)
	assert.True(t, cfg.Gateway.Enabled)
	assert.Equal(t, 9999, cfg.Gateway.Port)
}

func TestLoad_DerivedPaths(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nativeos.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"data_dir": "`+dir+`"}`), 0o644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.AgentsRoot)
	assert.Equal(t, filepath.Join(dir, "agents.json"), cfg.AgentsManifest)
	assert.Equal(t, filepath.Join(dir, "logs", "dispatcher.log"), cfg.Logging.File)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.History.Path)
}

func TestLoad_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nativeos.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{not json`), 0o644))

	cfg, err := Load(configPath)

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_TimeoutFloor(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nativeos.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"invoker": {"timeout_seconds": -5}}`), 0o644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Invoker.TimeoutSeconds)
}

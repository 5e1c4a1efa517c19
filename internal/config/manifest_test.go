package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxcode/nativeos/pkg/registry"
)

func manifestConfig(t *testing.T, manifest string) *Config {
	t.Helper()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.applyDerivedPaths()

	if manifest != "" {
		require.NoError(t, os.WriteFile(cfg.AgentsManifest, []byte(manifest), 0o644))
	}
	return cfg
}

func TestDescriptors_NoManifestUsesDefaults(t *testing.T) {
	cfg := manifestConfig(t, "")

	descs, err := cfg.Descriptors()

	require.NoError(t, err)
	assert.Len(t, descs, 12)
}

func TestDescriptors_ManifestOverridesByID(t *testing.T) {
	cfg := manifestConfig(t, `{
		"agents": [
			{"id": "code", "target": "/usr/local/bin/code-agent", "arg_mode": "raw_text"}
		]
	}`)

	descs, err := cfg.Descriptors()

	require.NoError(t, err)
	assert.Len(t, descs, 12)

	var code registry.AgentDescriptor
	for _, d := range descs {
		if d.ID == registry.AgentCode {
			code = d
		}
	}
	assert.Equal(t, "/usr/local/bin/code-agent", code.Target)
}

func TestDescriptors_ManifestExtends(t *testing.T) {
	cfg := manifestConfig(t, `{
		"agents": [
			{"id": "sql", "target": "/opt/agents/sql-agent.py", "arg_mode": "raw_text"}
		]
	}`)

	descs, err := cfg.Descriptors()

	require.NoError(t, err)
	assert.Len(t, descs, 13)
}

func TestDescriptors_SchemaRejectsBadArgMode(t *testing.T) {
	cfg := manifestConfig(t, `{
		"agents": [
			{"id": "code", "target": "/x", "arg_mode": "positional"}
		]
	}`)

	descs, err := cfg.Descriptors()

	assert.Nil(t, descs)
	assert.ErrorContains(t, err, "schema validation")
}

func TestDescriptors_SchemaRejectsBadID(t *testing.T) {
	cfg := manifestConfig(t, `{
		"agents": [
			{"id": "Not Valid", "target": "/x", "arg_mode": "raw_text"}
		]
	}`)

	_, err := cfg.Descriptors()

	assert.ErrorContains(t, err, "schema validation")
}

func TestDescriptors_SchemaRejectsMissingFields(t *testing.T) {
	cfg := manifestConfig(t, `{"agents": [{"id": "sql"}]}`)

	_, err := cfg.Descriptors()

	assert.ErrorContains(t, err, "schema validation")
}

func TestDescriptors_BuildsValidRegistry(t *testing.T) {
	cfg := manifestConfig(t, "")

	descs, err := cfg.Descriptors()
	require.NoError(t, err)

	reg, err := registry.New(descs)
	require.NoError(t, err)
	assert.Equal(t, 12, reg.Len())
}

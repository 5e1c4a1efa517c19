package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultDescriptors(t *testing.T) {
	reg, err := New(DefaultDescriptors("/opt/nativeos"))

	require.NoError(t, err)
	assert.Equal(t, 12, reg.Len())
}

func TestNew_DuplicateIdentifier(t *testing.T) {
	descs := []AgentDescriptor{
		{ID: "code", Target: "/a", ArgMode: ArgModeRawText},
		{ID: "code", Target: "/b", ArgMode: ArgModeRawText},
	}

	reg, err := New(descs)

	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrDuplicateAgent)
}

func TestNew_InvalidDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc AgentDescriptor
	}{
		{"missing id", AgentDescriptor{Target: "/a", ArgMode: ArgModeRawText}},
		{"missing target", AgentDescriptor{ID: "code", ArgMode: ArgModeRawText}},
		{"bad arg mode", AgentDescriptor{ID: "code", Target: "/a", ArgMode: ArgMode("positional")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := New([]AgentDescriptor{tt.desc})
			assert.Nil(t, reg)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestResolve_UnknownAgent(t *testing.T) {
	reg, err := New(DefaultDescriptors("/opt/nativeos"))
	require.NoError(t, err)

	_, err = reg.Resolve("warp-drive")

	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestResolve_StampsAvailability(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.sh")
	require.NoError(t, os.WriteFile(present, []byte("#!/bin/sh\n"), 0o755))

	reg, err := New([]AgentDescriptor{
		{ID: "present", Target: present, ArgMode: ArgModeRawText},
		{ID: "absent", Target: filepath.Join(dir, "absent.sh"), ArgMode: ArgModeRawText},
	})
	require.NoError(t, err)

	d, err := reg.Resolve("present")
	require.NoError(t, err)
	assert.True(t, d.Available)

	d, err = reg.Resolve("absent")
	require.NoError(t, err)
	assert.False(t, d.Available)
}

func TestResolve_BareCommandUsesPath(t *testing.T) {
	reg, err := New([]AgentDescriptor{
		{ID: "shell", Target: "sh", ArgMode: ArgModeNoArgument},
	})
	require.NoError(t, err)

	d, err := reg.Resolve("shell")

	require.NoError(t, err)
	assert.True(t, d.Available)
}

func TestList_SortedByID(t *testing.T) {
	reg, err := New(DefaultDescriptors("/opt/nativeos"))
	require.NoError(t, err)

	list := reg.List()

	require.Len(t, list, 12)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestDefaultDescriptors_ArgModes(t *testing.T) {
	descs := DefaultDescriptors("/opt/nativeos")

	modes := make(map[string]ArgMode, len(descs))
	for _, d := range descs {
		modes[d.ID] = d.ArgMode
	}

	assert.Equal(t, ArgModeRawText, modes[AgentCode])
	assert.Equal(t, ArgModeExtractedQuery, modes[AgentMemory])
	assert.Equal(t, ArgModeExtractedQuery, modes[AgentDSL])
	assert.Equal(t, ArgModeNoArgument, modes[AgentEvolver])
	assert.Equal(t, ArgModeNoArgument, modes[AgentMemoryInit])
}

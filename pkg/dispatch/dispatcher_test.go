package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxcode/nativeos/pkg/classify"
	"github.com/hxcode/nativeos/pkg/invoke"
	"github.com/hxcode/nativeos/pkg/registry"
)

type memoryRecorder struct {
	records []Record
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, rec Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func writeAgent(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func newTestDispatcher(t *testing.T, descs []registry.AgentDescriptor, rec Recorder) *Dispatcher {
	t.Helper()

	reg, err := registry.New(descs)
	require.NoError(t, err)

	d, err := New(Config{
		Classifier: classify.NewDefault(),
		Registry:   reg,
		Invoker:    invoke.New(invoke.Config{Logger: zerolog.Nop()}),
		Recorder:   rec,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return d
}

func TestDispatch_CodeAgentRawText(t *testing.T) {
	dir := t.TempDir()
	// The agent must see the literal input as its single argument and its
	// structured content field must become the body.
	code := writeAgent(t, dir, "code-agent.sh",
		`[ "$1" = "create a simple flask app" ] || { echo "wrong arg: $1" >&2; exit 1; }
printf '{"content":"done"}'`)

	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentCode, Target: code, ArgMode: registry.ArgModeRawText},
	}, nil)

	resp := d.Dispatch(context.Background(), "create a simple flask app")

	assert.True(t, resp.Succeeded)
	assert.Equal(t, registry.AgentCode, resp.AgentID)
	assert.Equal(t, "done", resp.Body)
}

func TestDispatch_MemoryPrefixExtractedQueryFailure(t *testing.T) {
	dir := t.TempDir()
	mem := writeAgent(t, dir, "memory_query.sh",
		`[ "$1" = "find the auth module" ] || { echo "wrong arg: $1" >&2; exit 1; }
printf 'db locked' >&2
exit 2`)

	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentMemory, Target: mem, ArgMode: registry.ArgModeExtractedQuery},
	}, nil)

	resp := d.Dispatch(context.Background(), "memory: find the auth module")

	assert.False(t, resp.Succeeded)
	assert.Equal(t, registry.AgentMemory, resp.AgentID)
	assert.Equal(t, "db locked", resp.Body)
}

func TestDispatch_AnsibleConjunctionBeforeInfra(t *testing.T) {
	dir := t.TempDir()
	ansible := writeAgent(t, dir, "ansible-agent.sh", `printf '{"message":"playbook ready"}'`)
	infra := writeAgent(t, dir, "infra-agent.sh", `printf '{"message":"should not run"}'`)

	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentAnsible, Target: ansible, ArgMode: registry.ArgModeRawText},
		{ID: registry.AgentInfra, Target: infra, ArgMode: registry.ArgModeRawText},
	}, nil)

	resp := d.Dispatch(context.Background(), "deploy ansible to configure server")

	assert.Equal(t, registry.AgentAnsible, resp.AgentID)
	assert.Equal(t, "playbook ready", resp.Body)
}

func TestDispatch_UnknownAgentIsConfigError(t *testing.T) {
	// Registry deliberately missing the memory agent the classifier selects.
	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentCode, Target: "sh", ArgMode: registry.ArgModeRawText},
	}, nil)

	resp := d.Dispatch(context.Background(), "memory: anything")

	assert.False(t, resp.Succeeded)
	assert.Equal(t, registry.AgentMemory, resp.AgentID)
	assert.Contains(t, resp.Body, "no agent registered")
}

func TestDispatch_MissingTargetIsDistinctFailure(t *testing.T) {
	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentCode, Target: filepath.Join(t.TempDir(), "gone.py"), ArgMode: registry.ArgModeRawText},
	}, nil)

	resp := d.Dispatch(context.Background(), "create a simple flask app")

	assert.False(t, resp.Succeeded)
	assert.Contains(t, resp.Body, "not installed")
	assert.NotContains(t, resp.Body, "no agent registered")
}

func TestDispatch_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	code := writeAgent(t, dir, "code-agent.sh", `printf '{"content":"done"}'`)
	rec := &memoryRecorder{}

	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentCode, Target: code, ArgMode: registry.ArgModeRawText},
	}, rec)

	_ = d.Dispatch(context.Background(), "create a simple flask app")

	require.Len(t, rec.records, 1)
	assert.Equal(t, "create a simple flask app", rec.records[0].Input)
	assert.Equal(t, registry.AgentCode, rec.records[0].AgentID)
	assert.Equal(t, "kw-code", rec.records[0].Rule)
	assert.Equal(t, 0, rec.records[0].ExitCode)
	assert.True(t, rec.records[0].Succeeded)
}

func TestDispatch_RecorderFailureDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	code := writeAgent(t, dir, "code-agent.sh", `printf '{"content":"done"}'`)
	rec := &memoryRecorder{err: assert.AnError}

	d := newTestDispatcher(t, []registry.AgentDescriptor{
		{ID: registry.AgentCode, Target: code, ArgMode: registry.ArgModeRawText},
	}, rec)

	resp := d.Dispatch(context.Background(), "create a simple flask app")

	assert.True(t, resp.Succeeded)
	assert.Equal(t, "done", resp.Body)
}

func TestNew_RequiredDependencies(t *testing.T) {
	reg, err := registry.New(registry.DefaultDescriptors("/opt/nativeos"))
	require.NoError(t, err)
	inv := invoke.New(invoke.Config{Logger: zerolog.Nop()})

	_, err = New(Config{Registry: reg, Invoker: inv})
	assert.ErrorContains(t, err, "classifier")

	_, err = New(Config{Classifier: classify.NewDefault(), Invoker: inv})
	assert.ErrorContains(t, err, "registry")

	_, err = New(Config{Classifier: classify.NewDefault(), Registry: reg})
	assert.ErrorContains(t, err, "invoker")
}

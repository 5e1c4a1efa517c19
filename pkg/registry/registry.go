package registry

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry is the static agent identifier to descriptor mapping. It is
// built once at process start and read-only afterwards, so lookups need
// no locking.
type Registry struct {
	descriptors map[string]AgentDescriptor
}

// New builds a registry from the given descriptors.
func New(descriptors []AgentDescriptor) (*Registry, error) {
	m := make(map[string]AgentDescriptor, len(descriptors))

	for _, d := range descriptors {
		if d.ID == "" || d.Target == "" {
			return nil, fmt.Errorf("%w: id=%q target=%q", ErrInvalidDescriptor, d.ID, d.Target)
		}
		switch d.ArgMode {
		case ArgModeRawText, ArgModeExtractedQuery, ArgModeNoArgument:
		default:
			return nil, fmt.Errorf("%w: agent %s has arg mode %q", ErrInvalidDescriptor, d.ID, d.ArgMode)
		}
		if _, exists := m[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, d.ID)
		}
		m[d.ID] = d
	}

	log.Debug().Int("agents", len(m)).Msg("Agent registry built")

	return &Registry{descriptors: m}, nil
}

// Resolve returns the descriptor for an agent identifier with Available
// stamped from a target existence check. A lookup miss is ErrUnknownAgent;
// a missing target is reported by the caller as ErrAgentNotExecutable via
// the Available flag (resolution itself still succeeds so the descriptor
// can be shown to operators).
func (r *Registry) Resolve(agentID string) (AgentDescriptor, error) {
	d, exists := r.descriptors[agentID]
	if !exists {
		return AgentDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}

	d.Available = targetExists(d.Target)
	return d, nil
}

// List returns all descriptors sorted by identifier, each with Available
// stamped at call time.
func (r *Registry) List() []AgentDescriptor {
	result := make([]AgentDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		d.Available = targetExists(d.Target)
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// targetExists checks whether an invocation target can be spawned: a bare
// command is looked up on PATH, a path is stat'd directly.
func targetExists(target string) bool {
	if strings.ContainsRune(target, os.PathSeparator) {
		info, err := os.Stat(target)
		return err == nil && !info.IsDir()
	}

	_, err := exec.LookPath(target)
	return err == nil
}

package registry

import "path/filepath"

// Agent identifiers. The set is fixed at process start; classification and
// descriptor lookup both key on these values.
const (
	AgentCode       = "code"
	AgentDoc        = "doc"
	AgentInfra      = "infra"
	AgentDocker     = "docker"
	AgentK8s        = "k8s"
	AgentTerraform  = "terraform"
	AgentAnsible    = "ansible"
	AgentDSL        = "dsl"
	AgentMemory     = "memory"
	AgentRemember   = "remember"
	AgentMemoryInit = "memory-init"
	AgentEvolver    = "evolver"
)

// ArgMode defines how the invoker builds the agent's argument list.
type ArgMode string

const (
	// ArgModeRawText passes the full user input verbatim as one argument
	ArgModeRawText ArgMode = "raw_text"
	// ArgModeExtractedQuery passes the text remaining after prefix stripping
	ArgModeExtractedQuery ArgMode = "extracted_query"
	// ArgModeNoArgument passes nothing
	ArgModeNoArgument ArgMode = "none"
)

// AgentDescriptor describes one registered agent. Descriptors are immutable
// once the registry is built; Available is stamped at resolution time.
type AgentDescriptor struct {
	// ID is the unique agent identifier
	ID string `json:"id"`

	// Target is the path or command invoked for this agent
	Target string `json:"target"`

	// ArgMode is the calling convention for the positional argument
	ArgMode ArgMode `json:"arg_mode"`

	// Available reports whether Target existed when the descriptor was resolved
	Available bool `json:"available"`
}

// DefaultDescriptors returns the built-in agent set rooted at agentsRoot,
// matching the on-disk layout of the Native OS agent scripts.
func DefaultDescriptors(agentsRoot string) []AgentDescriptor {
	join := func(parts ...string) string {
		return filepath.Join(append([]string{agentsRoot}, parts...)...)
	}

	return []AgentDescriptor{
		{ID: AgentCode, Target: join("agents", "code-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentDoc, Target: join("agents", "doc-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentInfra, Target: join("agents", "infra-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentDocker, Target: join("agents", "docker-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentK8s, Target: join("agents", "k8s-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentTerraform, Target: join("agents", "terraform-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentAnsible, Target: join("agents", "ansible-agent.py"), ArgMode: ArgModeRawText},
		{ID: AgentDSL, Target: join("agents", "infra_dsl.py"), ArgMode: ArgModeExtractedQuery},
		{ID: AgentMemory, Target: join("memory", "memory_query.py"), ArgMode: ArgModeExtractedQuery},
		{ID: AgentRemember, Target: join("memory", "memory_query.py"), ArgMode: ArgModeExtractedQuery},
		{ID: AgentMemoryInit, Target: join("memory", "init_memory.py"), ArgMode: ArgModeNoArgument},
		{ID: AgentEvolver, Target: join("evolver", "self_optimize.py"), ArgMode: ArgModeNoArgument},
	}
}

package invoke

import (
	"time"

	"github.com/hxcode/nativeos/pkg/registry"
)

// LocalModelEnv is the single override variable presented to every agent.
// Its value is "1" when agents should use a local/offline model and "0"
// when a remote credentialed provider is expected. Each agent selects its
// own backend from this flag; the dispatcher knows nothing provider
// specific beyond it.
const LocalModelEnv = "NATIVE_OS_LOCAL_MODEL"

// Credential variables whose presence means a remote provider is usable.
var providerCredentialEnvs = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"DEEPSEEK_API_KEY",
}

// Request describes one agent invocation. It is created per dispatch and
// discarded once the matching Result is produced.
type Request struct {
	// Descriptor is the resolved agent to execute
	Descriptor registry.AgentDescriptor

	// RawInput is the full user input, used for ArgModeRawText
	RawInput string

	// Query is the extracted query, used for ArgModeExtractedQuery
	Query string
}

// Result captures everything the subprocess produced. All failure shapes
// (spawn failure, non-zero exit, timeout) resolve to a populated Result;
// the invoker never propagates an error to the caller.
type Result struct {
	// InvocationID is a per-invocation identifier carried through logs
	InvocationID string `json:"invocation_id"`

	// ExitCode is the process exit code, -1 when the process never ran
	// or was killed on timeout
	ExitCode int `json:"exit_code"`

	// Stdout is the captured standard output
	Stdout []byte `json:"stdout"`

	// Stderr is the captured standard error
	Stderr []byte `json:"stderr"`

	// Duration is the wall-clock execution time
	Duration time.Duration `json:"duration"`

	// TimedOut reports whether the bounded wait expired
	TimedOut bool `json:"timed_out"`
}

// Failed reports whether the invocation should render as a failure.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

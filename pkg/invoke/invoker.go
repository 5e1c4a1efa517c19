package invoke

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/hxcode/nativeos/pkg/registry"
)

// DefaultTimeout bounds agent execution. The invoker kills the subprocess
// and reports a failed result when it expires.
const DefaultTimeout = 120 * time.Second

// Invoker executes agents as isolated OS subprocesses with captured
// streams and a derived environment. Each invocation is blocking and
// single-shot: the caller waits for process exit, and no retry happens.
type Invoker struct {
	timeout time.Duration
	logger  zerolog.Logger

	// lookupEnv is swappable for tests
	lookupEnv func(string) (string, bool)
}

// Config holds invoker configuration.
type Config struct {
	// Timeout bounds each invocation; DefaultTimeout when zero
	Timeout time.Duration

	Logger zerolog.Logger
}

// New creates an invoker.
func New(cfg Config) *Invoker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Invoker{
		timeout:   timeout,
		logger:    cfg.Logger.With().Str("component", "invoker").Logger(),
		lookupEnv: os.LookupEnv,
	}
}

// Invoke runs the agent and returns a populated Result. It never returns
// an error: spawn failures surface as exit code -1 with the failure text
// on stderr, so callers always have something to render.
func (i *Invoker) Invoke(ctx context.Context, req Request) Result {
	id, _ := gonanoid.New()

	args := i.buildArgs(req)
	env := i.buildEnvironment()

	execCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, req.Descriptor.Target, args...)
	cmd.Env = env
	// Without this, an orphaned grandchild holding the stdout pipe keeps
	// Wait blocked past the kill
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := Result{
		InvocationID: id,
		Stdout:       stdout.Bytes(),
		Stderr:       stderr.Bytes(),
		Duration:     duration,
	}

	switch {
	case execCtx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		result.TimedOut = true
		result.Stderr = append(result.Stderr, []byte(fmt.Sprintf("agent %s timed out after %s\n", req.Descriptor.ID, i.timeout))...)

	case err != nil:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure: the process never ran
			result.ExitCode = -1
			result.Stderr = append(result.Stderr, []byte(err.Error()+"\n")...)
		}
	}

	i.logger.Debug().
		Str("invocation_id", id).
		Str("agent_id", req.Descriptor.ID).
		Str("target", req.Descriptor.Target).
		Int("exit_code", result.ExitCode).
		Bool("timed_out", result.TimedOut).
		Dur("duration", duration).
		Msg("Agent invoked")

	return result
}

// buildArgs builds the positional argument list per the descriptor's
// calling convention. ExtractedQuery passes the post-prefix remainder
// even when empty, matching the one-positional-argument agent contract.
func (i *Invoker) buildArgs(req Request) []string {
	switch req.Descriptor.ArgMode {
	case registry.ArgModeRawText:
		return []string{req.RawInput}
	case registry.ArgModeExtractedQuery:
		return []string{req.Query}
	default:
		return nil
	}
}

// buildEnvironment derives the child environment: the full parent
// environment plus the local-model override. The flag is computed once
// per invocation and passed unconditionally so agents never guess. Any
// inherited copy of the flag is dropped first; getenv in the child must
// see exactly one value.
func (i *Invoker) buildEnvironment() []string {
	parent := os.Environ()
	env := make([]string, 0, len(parent)+1)
	for _, kv := range parent {
		if strings.HasPrefix(kv, LocalModelEnv+"=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, LocalModelEnv+"="+i.localModelFlag())
}

// localModelFlag is "1" when no provider credential is present, or when
// the parent environment forces local mode explicitly.
func (i *Invoker) localModelFlag() string {
	if v, ok := i.lookupEnv(LocalModelEnv); ok && v == "1" {
		return "1"
	}

	for _, key := range providerCredentialEnvs {
		if v, ok := i.lookupEnv(key); ok && v != "" {
			return "0"
		}
	}

	return "1"
}

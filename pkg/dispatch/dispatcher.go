// Package dispatch sequences classification, registry lookup, agent
// invocation, and rendering for one natural-language command.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hxcode/nativeos/pkg/classify"
	"github.com/hxcode/nativeos/pkg/invoke"
	"github.com/hxcode/nativeos/pkg/registry"
	"github.com/hxcode/nativeos/pkg/render"
)

// Record is the durable trace of one dispatch, handed to the recorder
// after rendering.
type Record struct {
	Timestamp time.Time
	Input     string
	AgentID   string
	Rule      string
	ExitCode  int
	Succeeded bool
	Body      string
}

// Recorder persists dispatch records. Recording failures never abort a
// dispatch; they are logged and dropped.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Dispatcher orchestrates classify → resolve → invoke → render. One
// Dispatch call fully completes, including blocking on subprocess exit,
// before returning. The dispatcher itself holds no mutable state, so
// independent sessions may dispatch concurrently.
type Dispatcher struct {
	classifier *classify.Classifier
	registry   *registry.Registry
	invoker    *invoke.Invoker
	recorder   Recorder
	logger     zerolog.Logger
}

// Config holds dispatcher dependencies.
type Config struct {
	Classifier *classify.Classifier
	Registry   *registry.Registry
	Invoker    *invoke.Invoker

	// Recorder is optional; nil disables history
	Recorder Recorder

	Logger zerolog.Logger
}

// New creates a dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}

	return &Dispatcher{
		classifier: cfg.Classifier,
		registry:   cfg.Registry,
		invoker:    cfg.Invoker,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger.With().Str("component", "dispatcher").Logger(),
	}, nil
}

// Dispatch routes one command end to end. Every outcome, including
// configuration errors and subprocess failures, is returned as a rendered
// response; nothing escapes as an unhandled fault.
func (d *Dispatcher) Dispatch(ctx context.Context, rawInput string) render.Response {
	d.logger.Info().
		Int("length", len(rawInput)).
		Msg("Input received")

	decision := d.classifier.Classify(rawInput)

	d.logger.Info().
		Str("agent_id", decision.Agent).
		Str("rule", decision.Rule).
		Msg("Agent selected")

	desc, err := d.registry.Resolve(decision.Agent)
	if err != nil {
		// Lookup miss is a configuration error, reported distinctly from
		// a classification miss and from a missing target.
		return d.finish(ctx, rawInput, decision, d.configFailure(decision.Agent, err,
			fmt.Sprintf("no agent registered for identifier %q; check the agents manifest", decision.Agent)))
	}

	if !desc.Available {
		return d.finish(ctx, rawInput, decision, d.configFailure(decision.Agent, registry.ErrAgentNotExecutable,
			fmt.Sprintf("agent %q is registered but its target %q is not installed", desc.ID, desc.Target)))
	}

	result := d.invoker.Invoke(ctx, invoke.Request{
		Descriptor: desc,
		RawInput:   rawInput,
		Query:      decision.Query,
	})

	d.logger.Info().
		Str("invocation_id", result.InvocationID).
		Str("agent_id", desc.ID).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("Agent invoked")

	resp := render.Render(result, desc.ID)

	d.logger.Info().
		Str("agent_id", resp.AgentID).
		Bool("succeeded", resp.Succeeded).
		Bool("structured", resp.Structured).
		Msg("Response rendered")

	return d.finishWithExit(ctx, rawInput, decision, resp, result.ExitCode)
}

// configFailure renders a configuration error as a failure response so the
// caller still gets a displayable panel.
func (d *Dispatcher) configFailure(agentID string, cause error, body string) render.Response {
	d.logger.Error().
		Err(cause).
		Str("agent_id", agentID).
		Str("reason", body).
		Msg("Dispatch failed before invocation")

	return render.Response{
		AgentID: agentID,
		Title:   render.Title(agentID),
		Body:    body,
	}
}

func (d *Dispatcher) finish(ctx context.Context, input string, decision classify.Decision, resp render.Response) render.Response {
	return d.finishWithExit(ctx, input, decision, resp, -1)
}

func (d *Dispatcher) finishWithExit(ctx context.Context, input string, decision classify.Decision, resp render.Response, exitCode int) render.Response {
	if d.recorder == nil {
		return resp
	}

	rec := Record{
		Timestamp: time.Now(),
		Input:     input,
		AgentID:   resp.AgentID,
		Rule:      decision.Rule,
		ExitCode:  exitCode,
		Succeeded: resp.Succeeded,
		Body:      resp.Body,
	}

	if err := d.recorder.Record(ctx, rec); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to record dispatch history")
	}

	return resp
}

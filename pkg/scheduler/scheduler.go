// Package scheduler runs periodic maintenance dispatches, most notably
// the self-optimize directive, on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hxcode/nativeos/pkg/render"
)

// DefaultDirective is the maintenance instruction dispatched on schedule.
const DefaultDirective = "self-optimize"

// DispatchFunc routes one instruction through the dispatcher.
type DispatchFunc func(ctx context.Context, input string) render.Response

// Scheduler owns the cron runner for maintenance dispatches.
type Scheduler struct {
	cron      *cron.Cron
	expr      string
	directive string
	dispatch  DispatchFunc
	timeout   time.Duration
	logger    zerolog.Logger
}

// Config holds scheduler configuration.
type Config struct {
	// Expr is a standard five-field cron expression
	Expr string

	// Directive is the instruction to dispatch; DefaultDirective when empty
	Directive string

	// Timeout bounds each scheduled dispatch; 10 minutes when zero
	Timeout time.Duration

	Dispatch DispatchFunc
	Logger   zerolog.Logger
}

// New creates a scheduler. The cron expression is validated eagerly so a
// bad schedule fails at startup, not at first fire.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Expr == "" {
		return nil, fmt.Errorf("cron expression is required")
	}
	if cfg.Dispatch == nil {
		return nil, fmt.Errorf("dispatch function is required")
	}
	if _, err := Parse(cfg.Expr); err != nil {
		return nil, err
	}

	directive := cfg.Directive
	if directive == "" {
		directive = DefaultDirective
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	return &Scheduler{
		cron:      cron.New(),
		expr:      cfg.Expr,
		directive: directive,
		dispatch:  cfg.Dispatch,
		timeout:   timeout,
		logger:    cfg.Logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Start registers the maintenance job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.expr, s.runMaintenance)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	s.cron.Start()

	s.logger.Info().
		Str("expr", s.expr).
		Str("directive", s.directive).
		Msg("Maintenance schedule started")

	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Maintenance schedule stopped")
}

func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info().Str("directive", s.directive).Msg("Scheduled maintenance dispatch")

	resp := s.dispatch(ctx, s.directive)

	s.logger.Info().
		Str("agent_id", resp.AgentID).
		Bool("succeeded", resp.Succeeded).
		Msg("Scheduled maintenance finished")
}

// Parse validates a five-field cron expression and returns its schedule.
func Parse(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return sched, nil
}

// NextRun returns the next fire time of expr after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}

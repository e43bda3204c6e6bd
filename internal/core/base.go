// Package core implements the uniform agent lifecycle and task-dispatch
// contract, plus the registry that constructs agents by type tag.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agentry-dev/agentry/internal/domain"
	"github.com/agentry-dev/agentry/internal/domain/agent"
)

// Agent is the contract every ecosystem agent satisfies. Concrete agents are
// built by embedding *Base and registering task handlers and monitor
// sections during Init.
type Agent interface {
	Name() string
	Type() string

	// Init performs agent-specific setup. It is safe to call once; a second
	// call fails with an invalid-transition error.
	Init(ctx context.Context) error

	// Execute dispatches a task to the handler registered for its type.
	// Unknown task types fail with a dispatch error, never a silent no-op.
	Execute(ctx context.Context, task agent.Task) (agent.Result, error)

	// Snapshot returns the monitoring view: identity, state, uptime, and a
	// metrics section extended by the concrete agent type.
	Snapshot() agent.Snapshot

	// Report returns the full metric history.
	Report() agent.MetricsReport

	RecordMetric(name string, value any)
	State() agent.State

	// Collaborate delivers a message to target, passing this agent as sender.
	Collaborate(ctx context.Context, target Agent, msg agent.Message) (agent.Ack, error)
	ReceiveMessage(ctx context.Context, sender Agent, msg agent.Message) (agent.Ack, error)
}

// Overridable is implemented by agents that accept post-construction field
// overrides from the registry. ApplyOverride returns false for fields the
// agent does not declare overridable; such overrides are skipped silently.
type Overridable interface {
	ApplyOverride(field string, value any) bool
}

// HandlerFunc processes one task type.
type HandlerFunc func(ctx context.Context, task agent.Task) (agent.Result, error)

// SectionFunc contributes a concrete agent's section to the base snapshot.
type SectionFunc func() map[string]any

// Base carries the shared bookkeeping of every agent: identity, config,
// lifecycle state, metric log, handler table, and monitor sections. A mutex
// serializes Execute and state changes so concurrent callers are safe.
type Base struct {
	name      string
	typ       string
	config    map[string]any
	createdAt time.Time
	log       *slog.Logger

	mu         sync.Mutex
	state      agent.State
	lastActive time.Time
	handlers   map[string]HandlerFunc
	sections   map[string]SectionFunc
	setup      func(ctx context.Context) error

	metrics *agent.MetricLog
}

// Option configures a Base at construction.
type Option func(*Base)

// WithMetricCapacity bounds the in-memory metric log.
func WithMetricCapacity(n int) Option {
	return func(b *Base) { b.metrics = agent.NewMetricLog(n) }
}

// WithLogger sets the agent's logger. Defaults to slog.Default() with
// agent name and type attributes.
func WithLogger(log *slog.Logger) Option {
	return func(b *Base) { b.log = log }
}

// NewBase creates the shared agent core. setup runs during Init and is where
// the concrete agent builds internal tables, registers handlers via Handle,
// and adds monitor sections via Section.
func NewBase(typ, name string, config map[string]any, setup func(ctx context.Context) error, opts ...Option) *Base {
	if config == nil {
		config = map[string]any{}
	}
	now := time.Now().UTC()
	b := &Base{
		name:       name,
		typ:        typ,
		config:     config,
		createdAt:  now,
		lastActive: now,
		state:      agent.StateCreated,
		handlers:   make(map[string]HandlerFunc),
		sections:   make(map[string]SectionFunc),
		setup:      setup,
	}
	// Config option "metric_capacity" bounds the metric log; WithMetricCapacity
	// takes precedence.
	capacity := 0
	switch v := config["metric_capacity"].(type) {
	case int:
		capacity = v
	case float64:
		capacity = int(v)
	}
	b.metrics = agent.NewMetricLog(capacity)
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = slog.Default().With("agent", name, "type", typ)
	}
	return b
}

// Name returns the unique-within-process agent identifier.
func (b *Base) Name() string { return b.name }

// Type returns the registry type tag this agent was constructed under.
func (b *Base) Type() string { return b.typ }

// State returns the current lifecycle state.
func (b *Base) State() agent.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// transition moves the lifecycle to next, enforcing the state machine.
// Callers must hold b.mu.
func (b *Base) transition(next agent.State) error {
	if !b.state.CanTransition(next) {
		return fmt.Errorf("agent %s: %s -> %s: %w", b.name, b.state, next, domain.ErrInvalidTransition)
	}
	b.state = next
	return nil
}

// Init runs the concrete agent's setup inside the lifecycle transitions
// Created -> Initializing -> Ready, or -> Failed when setup errors.
func (b *Base) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.transition(agent.StateInitializing); err != nil {
		return err
	}
	if b.setup != nil {
		if err := b.setup(ctx); err != nil {
			b.state = agent.StateFailed
			return fmt.Errorf("agent %s: %v: %w", b.name, err, domain.ErrInitFailed)
		}
	}
	b.state = agent.StateReady
	b.log.Info("agent initialized")
	return nil
}

// Handle registers the handler for a task type. Typically called from setup.
func (b *Base) Handle(taskType string, fn HandlerFunc) {
	b.handlers[taskType] = fn
}

// Section registers a monitor section contributed to every snapshot under
// the given key. Typically called from setup.
func (b *Base) Section(key string, fn SectionFunc) {
	b.sections[key] = fn
}

// Execute dispatches the task to its registered handler, wrapping the call
// in the Ready -> Executing -> Ready transition. A handler error leaves the
// agent Degraded; it recovers on the next successful call.
func (b *Base) Execute(ctx context.Context, task agent.Task) (agent.Result, error) {
	if err := task.Validate(); err != nil {
		return agent.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return agent.Result{}, fmt.Errorf("agent %s: execute: %w", b.name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Lifecycle is checked before dispatch: an agent that cannot execute
	// reports a transition fault even for task types it supports.
	prev := b.state
	if err := b.transition(agent.StateExecuting); err != nil {
		return agent.Result{}, err
	}

	fn, ok := b.handlers[task.Type]
	if !ok {
		b.state = prev
		return agent.Result{}, fmt.Errorf("agent %s: %q: %w", b.name, task.Type, domain.ErrUnknownTaskType)
	}

	res, err := fn(ctx, task)
	if err != nil {
		b.state = agent.StateDegraded
		return agent.Result{Status: agent.ResultError, Error: err.Error()}, err
	}
	b.state = agent.StateReady
	b.lastActive = time.Now().UTC()
	if res.Status == "" {
		res.Status = agent.ResultSuccess
	}
	return res, nil
}

// RecordMetric appends an observation to the agent's metric log.
func (b *Base) RecordMetric(name string, value any) {
	b.metrics.Record(name, value)
	b.log.Debug("metric recorded", "metric", name, "value", value)
}

// Snapshot builds the base monitoring view and lets every registered
// section extend the metrics mapping.
// Sections run under the agent mutex so they may read state that task
// handlers mutate.
func (b *Base) Snapshot() agent.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	metrics := make(map[string]any, len(b.sections))
	for key, fn := range b.sections {
		metrics[key] = fn()
	}

	return agent.Snapshot{
		Name:       b.name,
		Type:       b.typ,
		State:      b.state,
		LastActive: b.lastActive,
		Uptime:     time.Since(b.createdAt).Seconds(),
		Metrics:    metrics,
	}
}

// MetricCount returns the number of retained metrics. Safe to call from
// monitor sections.
func (b *Base) MetricCount() int { return b.metrics.Len() }

// Report returns the agent's full metric history.
func (b *Base) Report() agent.MetricsReport {
	return agent.MetricsReport{
		Name:    b.name,
		Type:    b.typ,
		State:   b.State(),
		Uptime:  time.Since(b.createdAt).Seconds(),
		Metrics: b.metrics.All(),
	}
}

// Collaborate delivers msg to target with this agent as sender.
func (b *Base) Collaborate(ctx context.Context, target Agent, msg agent.Message) (agent.Ack, error) {
	b.log.Info("collaborating", "target", target.Name(), "subject", msg.Subject)
	return target.ReceiveMessage(ctx, b, msg)
}

// ReceiveMessage acknowledges receipt. Concrete agents may shadow this to
// react to messages.
func (b *Base) ReceiveMessage(_ context.Context, sender Agent, msg agent.Message) (agent.Ack, error) {
	b.log.Info("message received", "from", sender.Name(), "subject", msg.Subject)
	return agent.Ack{Status: "received", From: sender.Name()}, nil
}

// FloatConfig returns a numeric config option, or def when absent.
func (b *Base) FloatConfig(key string, def float64) float64 {
	switch v := b.config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// StringConfig returns a string config option, or def when absent.
func (b *Base) StringConfig(key, def string) string {
	if s, ok := b.config[key].(string); ok {
		return s
	}
	return def
}

// Logger returns the agent's structured logger.
func (b *Base) Logger() *slog.Logger { return b.log }

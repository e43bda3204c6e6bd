// Package service contains the application services that sit between the
// HTTP adapter and the agent runtime.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/agentry-dev/agentry/internal/adapter/otel"
	"github.com/agentry-dev/agentry/internal/adapter/ws"
	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain"
	"github.com/agentry-dev/agentry/internal/domain/agent"
	"github.com/agentry-dev/agentry/internal/port/broadcast"
	"github.com/agentry-dev/agentry/internal/port/cache"
	"github.com/agentry-dev/agentry/internal/port/database"
	"github.com/agentry-dev/agentry/internal/port/messagequeue"
)

const healthCacheKey = "ecosystem:health"

// EcosystemService owns the agent registry and all live agent instances. It
// spawns agents, dispatches tasks, relays collaboration, and aggregates
// health and metrics. Persistence, messaging, broadcasting, and caching are
// optional collaborators; a nil port disables that concern.
type EcosystemService struct {
	registry *core.Registry
	store    database.Store
	queue    messagequeue.Queue
	hub      broadcast.Broadcaster
	cache    cache.Cache
	metrics  *otel.Metrics
	log      *slog.Logger

	healthTTL      time.Duration
	metricCapacity int

	mu     sync.RWMutex
	agents map[string]core.Agent // keyed by agent name
	ids    map[string]string     // agent name -> record ID
}

// EcosystemOption configures optional collaborators.
type EcosystemOption func(*EcosystemService)

// WithStore attaches a persistence backend.
func WithStore(store database.Store) EcosystemOption {
	return func(s *EcosystemService) { s.store = store }
}

// WithQueue attaches a message queue for ecosystem events.
func WithQueue(q messagequeue.Queue) EcosystemOption {
	return func(s *EcosystemService) { s.queue = q }
}

// WithBroadcaster attaches a real-time event broadcaster.
func WithBroadcaster(hub broadcast.Broadcaster) EcosystemOption {
	return func(s *EcosystemService) { s.hub = hub }
}

// WithCache attaches a cache for health snapshots.
func WithCache(c cache.Cache, ttl time.Duration) EcosystemOption {
	return func(s *EcosystemService) {
		s.cache = c
		s.healthTTL = ttl
	}
}

// WithMetrics attaches telemetry instruments.
func WithMetrics(m *otel.Metrics) EcosystemOption {
	return func(s *EcosystemService) { s.metrics = m }
}

// WithMetricCapacity sets the default metric log capacity injected into
// spawned agents that do not configure their own. Zero keeps the agent default.
func WithMetricCapacity(n int) EcosystemOption {
	return func(s *EcosystemService) { s.metricCapacity = n }
}

// NewEcosystemService creates the ecosystem around a registry.
func NewEcosystemService(registry *core.Registry, log *slog.Logger, opts ...EcosystemOption) *EcosystemService {
	s := &EcosystemService{
		registry:  registry,
		log:       log,
		healthTTL: 5 * time.Second,
		agents:    make(map[string]core.Agent),
		ids:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the underlying type registry.
func (s *EcosystemService) Registry() *core.Registry { return s.registry }

// Spawn creates, initializes, and registers a new agent instance. Overrides
// may be nil; unknown override fields are skipped by the agent.
func (s *EcosystemService) Spawn(ctx context.Context, typeTag, name string, config, overrides map[string]any) (*agent.Record, error) {
	if name == "" {
		return nil, fmt.Errorf("agent name is required: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	if _, exists := s.agents[name]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("agent %q already exists: %w", name, domain.ErrConflict)
	}
	s.mu.Unlock()

	if s.metricCapacity > 0 {
		if _, set := config["metric_capacity"]; !set {
			merged := make(map[string]any, len(config)+1)
			for k, v := range config {
				merged[k] = v
			}
			merged["metric_capacity"] = s.metricCapacity
			config = merged
		}
	}

	a, err := s.registry.CreateSpecialized(ctx, typeTag, name, config, overrides)
	if err != nil {
		return nil, err
	}

	rec := &agent.Record{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   typeTag,
		Config: config,
		State:  a.State(),
	}

	if s.store != nil {
		if err := s.store.CreateAgent(ctx, rec); err != nil {
			return nil, err
		}
	} else {
		now := time.Now().UTC()
		rec.CreatedAt = now
		rec.LastActive = now
	}

	s.mu.Lock()
	s.agents[name] = a
	s.ids[name] = rec.ID
	s.mu.Unlock()

	s.invalidateHealth(ctx)
	if s.metrics != nil {
		s.metrics.AgentsSpawned.Add(ctx, 1, metric.WithAttributes(attribute.String("agent_type", typeTag)))
		s.metrics.HealthyAgents.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectAgentCreated, map[string]any{
		"agent_id": rec.ID,
		"name":     name,
		"type":     typeTag,
	})
	s.broadcastState(ctx, rec.ID, a)

	s.log.Info("agent spawned", "name", name, "type", typeTag, "state", a.State())
	return rec, nil
}

// Get returns a live agent by name.
func (s *EcosystemService) Get(name string) (core.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[name]
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", name, domain.ErrNotFound)
	}
	return a, nil
}

// List returns the names of all live agents, sorted.
func (s *EcosystemService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove stops tracking an agent and deletes its record.
func (s *EcosystemService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	a, ok := s.agents[name]
	id := s.ids[name]
	if ok {
		delete(s.agents, name)
		delete(s.ids, name)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("agent %q: %w", name, domain.ErrNotFound)
	}

	s.invalidateHealth(ctx)
	if s.metrics != nil && a.State() != agent.StateFailed {
		s.metrics.HealthyAgents.Add(ctx, -1)
	}
	if s.store != nil {
		return s.store.DeleteAgent(ctx, id)
	}
	return nil
}

// Execute dispatches a task to a named agent and records the outcome.
func (s *EcosystemService) Execute(ctx context.Context, name string, task agent.Task) (agent.Result, error) {
	a, err := s.Get(name)
	if err != nil {
		return agent.Result{}, err
	}

	s.mu.RLock()
	agentID := s.ids[name]
	s.mu.RUnlock()

	taskRec := &agent.TaskRecord{
		ID:      uuid.NewString(),
		AgentID: agentID,
		Type:    task.Type,
		Params:  task.Data,
		Status:  "pending",
	}
	if s.store != nil {
		if err := s.store.CreateTask(ctx, taskRec); err != nil {
			s.log.Warn("persist task failed", "task", task.Type, "error", err)
		}
	}

	start := time.Now()
	result, execErr := a.Execute(ctx, task)
	elapsed := time.Since(start).Seconds()

	attrs := metric.WithAttributes(attribute.String("agent_type", a.Type()))
	if s.metrics != nil {
		s.metrics.TasksExecuted.Add(ctx, 1, attrs)
		s.metrics.TaskDuration.Record(ctx, elapsed, attrs)
		if execErr != nil {
			s.metrics.TaskErrors.Add(ctx, 1, attrs)
		}
	}

	s.invalidateHealth(ctx)
	s.persistOutcome(ctx, agentID, taskRec.ID, a, result, execErr)
	s.publish(ctx, messagequeue.SubjectTaskCompleted, map[string]any{
		"task_id":  taskRec.ID,
		"agent_id": agentID,
		"type":     task.Type,
		"status":   string(result.Status),
	})
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventTaskCompleted, ws.TaskCompletedEvent{
			TaskID:  taskRec.ID,
			AgentID: agentID,
			Type:    task.Type,
			Status:  string(result.Status),
			Error:   result.Error,
		})
		if report := a.Report(); len(report.Metrics) > 0 {
			newest := report.Metrics[len(report.Metrics)-1]
			s.hub.BroadcastEvent(ctx, ws.EventAgentMetric, ws.AgentMetricEvent{
				AgentID: agentID,
				Name:    name,
				Metric:  newest.Name,
				Value:   newest.Value,
			})
		}
	}
	s.broadcastState(ctx, agentID, a)

	return result, execErr
}

// Collaborate relays a message from one agent to another.
func (s *EcosystemService) Collaborate(ctx context.Context, from, to string, msg agent.Message) (agent.Ack, error) {
	sender, err := s.Get(from)
	if err != nil {
		return agent.Ack{}, err
	}
	target, err := s.Get(to)
	if err != nil {
		return agent.Ack{}, err
	}

	ack, err := sender.Collaborate(ctx, target, msg)
	if err != nil {
		return agent.Ack{}, err
	}

	if s.metrics != nil {
		s.metrics.Collaborations.Add(ctx, 1)
	}
	s.publish(ctx, messagequeue.SubjectCollaboration, map[string]any{
		"from":    from,
		"to":      to,
		"subject": msg.Subject,
	})
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventCollaboration, ws.CollaborationEvent{
			From:    from,
			To:      to,
			Subject: msg.Subject,
		})
	}
	return ack, nil
}

// Health returns a snapshot of every live agent. Snapshots are gathered
// concurrently; one failing agent does not block the rest. Results are
// cached briefly to absorb dashboard polling.
func (s *EcosystemService) Health(ctx context.Context) (map[string]agent.Snapshot, error) {
	if s.cache != nil {
		if data, ok, _ := s.cache.Get(ctx, healthCacheKey); ok {
			var cached map[string]agent.Snapshot
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	s.mu.RLock()
	live := make(map[string]core.Agent, len(s.agents))
	for name, a := range s.agents {
		live[name] = a
	}
	s.mu.RUnlock()

	var smu sync.Mutex
	snapshots := make(map[string]agent.Snapshot, len(live))

	g, gctx := errgroup.WithContext(ctx)
	for name, a := range live {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap := a.Snapshot()
			smu.Lock()
			snapshots[name] = snap
			smu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(snapshots); err == nil {
			_ = s.cache.Set(ctx, healthCacheKey, data, s.healthTTL)
		}
	}
	return snapshots, nil
}

// Tasks returns the persisted task history of a named agent, newest first.
// Without a store the history is empty.
func (s *EcosystemService) Tasks(ctx context.Context, name string, limit int) ([]agent.TaskRecord, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}
	if s.store == nil {
		return []agent.TaskRecord{}, nil
	}
	s.mu.RLock()
	id := s.ids[name]
	s.mu.RUnlock()
	return s.store.ListTasksByAgent(ctx, id, limit)
}

// Metrics returns the metric report of a named agent.
func (s *EcosystemService) Metrics(name string) (agent.MetricsReport, error) {
	a, err := s.Get(name)
	if err != nil {
		return agent.MetricsReport{}, err
	}
	return a.Report(), nil
}

// AllMetrics returns metric reports for every live agent.
func (s *EcosystemService) AllMetrics() map[string]agent.MetricsReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := make(map[string]agent.MetricsReport, len(s.agents))
	for name, a := range s.agents {
		reports[name] = a.Report()
	}
	return reports
}

// persistOutcome records the task result, refreshed state, and any metrics
// the handler produced.
func (s *EcosystemService) persistOutcome(ctx context.Context, agentID, taskID string, a core.Agent, result agent.Result, execErr error) {
	if s.store == nil {
		return
	}

	errMsg := result.Error
	if errMsg == "" && execErr != nil {
		errMsg = execErr.Error()
	}
	if err := s.store.CompleteTask(ctx, taskID, result.Status, result.Output, errMsg); err != nil {
		s.log.Warn("persist task result failed", "task_id", taskID, "error", err)
	}
	if err := s.store.UpdateAgentState(ctx, agentID, a.State()); err != nil {
		s.log.Warn("persist agent state failed", "agent_id", agentID, "error", err)
	}

	report := a.Report()
	if n := len(report.Metrics); n > 0 {
		// Persist only the most recent observation per task to keep
		// write volume proportional to task count.
		if err := s.store.InsertMetric(ctx, agentID, report.Metrics[n-1]); err != nil {
			s.log.Warn("persist metric failed", "agent_id", agentID, "error", err)
		}
	}
}

func (s *EcosystemService) publish(ctx context.Context, subject string, payload map[string]any) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		s.log.Warn("publish event failed", "subject", subject, "error", err)
	}
}

func (s *EcosystemService) broadcastState(ctx context.Context, agentID string, a core.Agent) {
	s.publish(ctx, messagequeue.SubjectAgentState, map[string]any{
		"agent_id": agentID,
		"name":     a.Name(),
		"state":    string(a.State()),
	})
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventAgentStatus, ws.AgentStatusEvent{
			AgentID: agentID,
			Name:    a.Name(),
			Type:    a.Type(),
			State:   string(a.State()),
		})
	}
}

func (s *EcosystemService) invalidateHealth(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, healthCacheKey)
	}
}

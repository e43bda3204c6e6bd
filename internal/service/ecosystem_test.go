package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/agentry-dev/agentry/internal/adapter/ws"
	"github.com/agentry-dev/agentry/internal/agents"
	"github.com/agentry-dev/agentry/internal/core"
	"github.com/agentry-dev/agentry/internal/domain"
	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func newTestEcosystem(t *testing.T, opts ...EcosystemOption) *EcosystemService {
	t.Helper()
	registry := core.NewRegistry()
	agents.RegisterAll(registry)
	return NewEcosystemService(registry, slog.New(slog.DiscardHandler), opts...)
}

// recordingBroadcaster captures broadcast events for assertions.
type recordingBroadcaster struct {
	events []struct {
		Type    string
		Payload any
	}
}

func (b *recordingBroadcaster) BroadcastEvent(_ context.Context, eventType string, payload any) {
	b.events = append(b.events, struct {
		Type    string
		Payload any
	}{eventType, payload})
}

func (b *recordingBroadcaster) byType(eventType string) []any {
	var out []any
	for _, e := range b.events {
		if e.Type == eventType {
			out = append(out, e.Payload)
		}
	}
	return out
}

func TestEcosystem_SpawnAndExecute(t *testing.T) {
	store := &mockStore{}
	eco := newTestEcosystem(t, WithStore(store))
	ctx := context.Background()

	rec, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-1", nil, nil)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if rec.State != agent.StateReady {
		t.Errorf("state = %s, want ready", rec.State)
	}

	result, err := eco.Execute(ctx, "roi-1", agent.Task{
		Type: "optimize_roi",
		Data: map[string]any{"current_revenue": 100000.0, "current_costs": 80000.0},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Status != agent.ResultSuccess {
		t.Errorf("status = %s, want success", result.Status)
	}
	if result.Output["current_roi"] != 0.25 {
		t.Errorf("current_roi = %v, want 0.25", result.Output["current_roi"])
	}

	// The task outcome must be persisted.
	tasks, _ := store.ListTasksByAgent(ctx, rec.ID, 10)
	if len(tasks) != 1 {
		t.Fatalf("got %d persisted tasks, want 1", len(tasks))
	}
	if tasks[0].Status != agent.ResultSuccess {
		t.Errorf("persisted status = %s", tasks[0].Status)
	}
	if tasks[0].CompletedAt.IsZero() {
		t.Error("completed_at not set")
	}
}

func TestEcosystem_SpawnUnknownType(t *testing.T) {
	eco := newTestEcosystem(t)

	_, err := eco.Spawn(context.Background(), "nonexistent", "x", nil, nil)
	if !errors.Is(err, domain.ErrUnknownAgentType) {
		t.Errorf("expected ErrUnknownAgentType, got %v", err)
	}
}

func TestEcosystem_SpawnDuplicateName(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeAnalytics, "dup", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	_, err := eco.Spawn(ctx, agents.TypeAnalytics, "dup", nil, nil)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestEcosystem_SpawnWithOverrides(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	_, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-strict", nil,
		map[string]any{"target_roi": 0.5, "unknown_field": "ignored"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	a, err := eco.Get("roi-strict")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	snap := a.Snapshot()
	section, ok := snap.Metrics["roi_tracking"].(map[string]any)
	if !ok {
		t.Fatalf("missing roi_tracking section: %v", snap.Metrics)
	}
	if section["target_roi"] != 0.5 {
		t.Errorf("target_roi = %v, want 0.5", section["target_roi"])
	}
}

func TestEcosystem_ExecuteUnknownAgent(t *testing.T) {
	eco := newTestEcosystem(t)

	_, err := eco.Execute(context.Background(), "ghost", agent.Task{Type: "anything"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEcosystem_ExecuteErrorKeepsAgent(t *testing.T) {
	store := &mockStore{}
	eco := newTestEcosystem(t, WithStore(store))
	ctx := context.Background()

	rec, err := eco.Spawn(ctx, agents.TypeCommunityEngagement, "eng-1", nil, nil)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	_, err = eco.Execute(ctx, "eng-1", agent.Task{Type: "no_such_task"})
	if !errors.Is(err, domain.ErrUnknownTaskType) {
		t.Fatalf("expected ErrUnknownTaskType, got %v", err)
	}

	// Dispatch failure leaves the agent available for further work.
	result, err := eco.Execute(ctx, "eng-1", agent.Task{
		Type: "respond_to_user",
		Data: map[string]any{"platform": "discord", "message": "hi"},
	})
	if err != nil {
		t.Fatalf("execute after failure: %v", err)
	}
	if result.Status != agent.ResultSuccess {
		t.Errorf("status = %s, want success", result.Status)
	}

	got, _ := store.GetAgent(ctx, rec.ID)
	if got.State != agent.StateReady {
		t.Errorf("persisted state = %s, want ready", got.State)
	}
}

func TestEcosystem_Collaborate(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-1", nil, nil); err != nil {
		t.Fatalf("spawn roi: %v", err)
	}
	if _, err := eco.Spawn(ctx, agents.TypeAnalytics, "analytics-1", nil, nil); err != nil {
		t.Fatalf("spawn analytics: %v", err)
	}

	ack, err := eco.Collaborate(ctx, "roi-1", "analytics-1", agent.Message{
		Subject: "roi_update",
		Body:    map[string]any{"current_roi": 0.25},
	})
	if err != nil {
		t.Fatalf("collaborate: %v", err)
	}
	if ack.Status != "received" {
		t.Errorf("ack status = %q, want received", ack.Status)
	}
	if ack.From != "analytics-1" {
		t.Errorf("ack from = %q, want analytics-1", ack.From)
	}
}

func TestEcosystem_Health(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	for _, spec := range []struct{ typ, name string }{
		{agents.TypeROIOptimization, "roi-1"},
		{agents.TypeMarketplaceManager, "market-1"},
		{agents.TypeAnalytics, "analytics-1"},
	} {
		if _, err := eco.Spawn(ctx, spec.typ, spec.name, nil, nil); err != nil {
			t.Fatalf("spawn %s: %v", spec.name, err)
		}
	}

	health, err := eco.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if len(health) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(health))
	}
	for name, snap := range health {
		if snap.State != agent.StateReady {
			t.Errorf("%s: state = %s, want ready", name, snap.State)
		}
		if snap.Uptime < 0 {
			t.Errorf("%s: negative uptime", name)
		}
	}
}

func TestEcosystem_ListAndRemove(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeAnalytics, "b-agent", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := eco.Spawn(ctx, agents.TypeAnalytics, "a-agent", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	names := eco.List()
	if len(names) != 2 || names[0] != "a-agent" || names[1] != "b-agent" {
		t.Errorf("names = %v, want sorted [a-agent b-agent]", names)
	}

	if err := eco.Remove(ctx, "a-agent"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := eco.Get("a-agent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
	if err := eco.Remove(ctx, "a-agent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestEcosystem_Metrics(t *testing.T) {
	eco := newTestEcosystem(t)
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-1", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := eco.Execute(ctx, "roi-1", agent.Task{
		Type: "optimize_roi",
		Data: map[string]any{"current_revenue": 50000.0, "current_costs": 40000.0},
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	report, err := eco.Metrics("roi-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if len(report.Metrics) == 0 {
		t.Fatal("expected recorded metrics")
	}

	all := eco.AllMetrics()
	if _, ok := all["roi-1"]; !ok {
		t.Errorf("AllMetrics missing roi-1: %v", all)
	}
}

func TestEcosystem_ExecuteBroadcastsEvents(t *testing.T) {
	hub := &recordingBroadcaster{}
	eco := newTestEcosystem(t, WithBroadcaster(hub))
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-1", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := eco.Execute(ctx, "roi-1", agent.Task{
		Type: "optimize_roi",
		Data: map[string]any{"current_revenue": 100000.0, "current_costs": 80000.0},
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := hub.byType(ws.EventTaskCompleted); len(got) != 1 {
		t.Fatalf("expected 1 task.completed event, got %d", len(got))
	}

	metricEvents := hub.byType(ws.EventAgentMetric)
	if len(metricEvents) != 1 {
		t.Fatalf("expected 1 agent.metric event, got %d", len(metricEvents))
	}
	ev, ok := metricEvents[0].(ws.AgentMetricEvent)
	if !ok {
		t.Fatalf("unexpected metric payload type %T", metricEvents[0])
	}
	if ev.Name != "roi-1" || ev.Metric == "" {
		t.Errorf("metric event = %+v, want agent roi-1 with a named metric", ev)
	}
}

func TestEcosystem_DefaultMetricCapacity(t *testing.T) {
	eco := newTestEcosystem(t, WithMetricCapacity(2))
	ctx := context.Background()

	if _, err := eco.Spawn(ctx, agents.TypeROIOptimization, "roi-1", nil, nil); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	a, err := eco.Get("roi-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for i := range 3 {
		a.RecordMetric("m", i)
	}

	report, err := eco.Metrics("roi-1")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if len(report.Metrics) != 2 {
		t.Fatalf("expected capacity 2 to bound the log, got %d entries", len(report.Metrics))
	}
	if report.Metrics[len(report.Metrics)-1].Value != 2 {
		t.Errorf("expected newest metric retained, got %v", report.Metrics[len(report.Metrics)-1].Value)
	}
}

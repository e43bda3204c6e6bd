package agent_test

import (
	"testing"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func TestMetricLogOrder(t *testing.T) {
	log := agent.NewMetricLog(8)
	log.Record("a", 1)
	log.Record("b", 2)
	log.Record("c", 3)

	got := log.All()
	if len(got) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(got))
	}
	names := []string{"a", "b", "c"}
	for i, n := range names {
		if got[i].Name != n {
			t.Errorf("position %d: expected %s, got %s", i, n, got[i].Name)
		}
	}
	if got[2].Timestamp.Before(got[0].Timestamp) {
		t.Error("timestamps must be non-decreasing in insertion order")
	}
}

func TestMetricLogAppendsLast(t *testing.T) {
	log := agent.NewMetricLog(4)
	log.Record("first", 1)
	log.Record("second", 2)

	got := log.All()
	if got[len(got)-1].Name != "second" {
		t.Fatalf("expected newest entry last, got %s", got[len(got)-1].Name)
	}
}

func TestMetricLogEviction(t *testing.T) {
	log := agent.NewMetricLog(3)
	for i, n := range []string{"a", "b", "c", "d", "e"} {
		log.Record(n, i)
	}

	got := log.All()
	if len(got) != 3 {
		t.Fatalf("expected capacity 3, got %d entries", len(got))
	}
	names := []string{"c", "d", "e"}
	for i, n := range names {
		if got[i].Name != n {
			t.Errorf("position %d: expected %s, got %s", i, n, got[i].Name)
		}
	}
}

func TestTaskValidate(t *testing.T) {
	task := agent.Task{Data: map[string]any{"x": 1}}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for missing task type")
	}

	task.Type = "optimize_roi"
	if err := task.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTaskFloat(t *testing.T) {
	task := agent.Task{Data: map[string]any{
		"json_num": float64(3.5),
		"int_num":  42,
	}}
	if v := task.Float("json_num", 0); v != 3.5 {
		t.Errorf("expected 3.5, got %v", v)
	}
	if v := task.Float("int_num", 0); v != 42 {
		t.Errorf("expected 42, got %v", v)
	}
	if v := task.Float("missing", 7); v != 7 {
		t.Errorf("expected default 7, got %v", v)
	}
}

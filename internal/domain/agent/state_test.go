package agent_test

import (
	"testing"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func TestStateTransitions(t *testing.T) {
	allowed := []struct {
		from, to agent.State
	}{
		{agent.StateCreated, agent.StateInitializing},
		{agent.StateInitializing, agent.StateReady},
		{agent.StateInitializing, agent.StateFailed},
		{agent.StateReady, agent.StateExecuting},
		{agent.StateExecuting, agent.StateReady},
		{agent.StateExecuting, agent.StateDegraded},
		{agent.StateReady, agent.StateDegraded},
		{agent.StateDegraded, agent.StateReady},
		{agent.StateDegraded, agent.StateFailed},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to agent.State
	}{
		{agent.StateCreated, agent.StateReady},
		{agent.StateCreated, agent.StateExecuting},
		{agent.StateReady, agent.StateCreated},
		{agent.StateFailed, agent.StateReady},
		{agent.StateFailed, agent.StateFailed},
		{agent.StateExecuting, agent.StateInitializing},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestStateFailedIsTerminal(t *testing.T) {
	if !agent.StateFailed.IsTerminal() {
		t.Fatal("expected failed to be terminal")
	}
	if agent.StateReady.IsTerminal() {
		t.Fatal("expected ready to be non-terminal")
	}
}

func TestStateValid(t *testing.T) {
	if !agent.StateReady.Valid() {
		t.Fatal("expected ready to be valid")
	}
	if agent.State("running").Valid() {
		t.Fatal("expected free-form state to be invalid")
	}
}

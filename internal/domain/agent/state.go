package agent

// State represents the lifecycle state of an agent.
type State string

const (
	StateCreated      State = "created"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateExecuting    State = "executing"
	StateDegraded     State = "degraded"
	StateFailed       State = "failed"
)

// Valid reports whether s is a known lifecycle state.
func (s State) Valid() bool {
	switch s {
	case StateCreated, StateInitializing, StateReady, StateExecuting, StateDegraded, StateFailed:
		return true
	}
	return false
}

// IsTerminal returns true if the agent cannot leave this state.
func (s State) IsTerminal() bool {
	return s == StateFailed
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// Any state may transition to StateFailed on an unrecoverable error.
func (s State) CanTransition(next State) bool {
	if next == StateFailed {
		return !s.IsTerminal()
	}
	switch s {
	case StateCreated:
		return next == StateInitializing
	case StateInitializing:
		return next == StateReady
	case StateReady:
		return next == StateExecuting || next == StateDegraded
	case StateExecuting:
		return next == StateReady || next == StateDegraded
	case StateDegraded:
		return next == StateReady || next == StateExecuting
	}
	return false
}

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventAgentStatus   = "agent.status"
	EventAgentMetric   = "agent.metric"
	EventTaskCompleted = "task.completed"
	EventCollaboration = "agent.collaboration"
)

// AgentStatusEvent is broadcast when an agent's lifecycle state changes.
type AgentStatusEvent struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	State   string `json:"state"`
}

// AgentMetricEvent is broadcast when an agent records a metric.
type AgentMetricEvent struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
	Metric  string `json:"metric"`
	Value   any    `json:"value"`
}

// TaskCompletedEvent is broadcast when a task execution finishes.
type TaskCompletedEvent struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// CollaborationEvent is broadcast when one agent messages another.
type CollaborationEvent struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}

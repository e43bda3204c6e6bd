package http

import (
	"net/http"

	"github.com/agentry-dev/agentry/internal/domain/agent"
	"github.com/agentry-dev/agentry/internal/service"
)

// Handlers bundles the services the HTTP layer dispatches to.
type Handlers struct {
	eco  *service.EcosystemService
	auth *service.AuthService
}

// NewHandlers creates the handler set.
func NewHandlers(eco *service.EcosystemService, auth *service.AuthService) *Handlers {
	return &Handlers{eco: eco, auth: auth}
}

// Health handles GET /health. It aggregates a snapshot of every live agent;
// the ecosystem is degraded if any agent is, and unhealthy only when an
// agent has failed terminally.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.eco.Health(r.Context())
	if err != nil {
		writeDomainError(w, err, "health check failed")
		return
	}

	status := "healthy"
	for _, snap := range snapshots {
		switch snap.State {
		case agent.StateFailed:
			status = "unhealthy"
		case agent.StateDegraded:
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"agents": snapshots,
	})
}

// EcosystemMetrics handles GET /metrics: full metric reports for all agents.
func (h *Handlers) EcosystemMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.eco.AllMetrics())
}

type spawnAgentRequest struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Config    map[string]any `json:"config,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty"`
}

// SpawnAgent handles POST /api/v1/agents.
func (h *Handlers) SpawnAgent(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[spawnAgentRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Name, "name") || !requireField(w, req.Type, "type") {
		return
	}

	rec, err := h.eco.Spawn(r.Context(), req.Type, req.Name, req.Config, req.Overrides)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ListAgents handles GET /api/v1/agents.
func (h *Handlers) ListAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": h.eco.List()})
}

// ListAgentTypes handles GET /api/v1/agent-types.
func (h *Handlers) ListAgentTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": h.eco.Registry().Types()})
}

// GetAgent handles GET /api/v1/agents/{name}: the agent's snapshot.
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	a, err := h.eco.Get(name)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, a.Snapshot())
}

// DeleteAgent handles DELETE /api/v1/agents/{name}.
func (h *Handlers) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.eco.Remove(r.Context(), urlParam(r, "name")); err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AgentMetrics handles GET /api/v1/agents/{name}/metrics.
func (h *Handlers) AgentMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.eco.Metrics(urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type executeTaskRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

type executeTaskResponse struct {
	Status string         `json:"status"`
	Output map[string]any `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ExecuteTask handles POST /api/v1/agents/{name}/tasks.
func (h *Handlers) ExecuteTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[executeTaskRequest](w, r)
	if !ok {
		return
	}

	result, err := h.eco.Execute(r.Context(), urlParam(r, "name"), agent.Task{
		Type: req.Type,
		Data: req.Data,
	})
	if err != nil && result.Status == "" {
		// No result envelope means the task never reached a handler.
		writeDomainError(w, err, "agent not found")
		return
	}

	writeJSON(w, http.StatusOK, executeTaskResponse{
		Status: string(result.Status),
		Output: result.Output,
		Error:  result.Error,
	})
}

type collaborateRequest struct {
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Body    map[string]any `json:"body,omitempty"`
}

// Collaborate handles POST /api/v1/agents/{name}/collaborate.
func (h *Handlers) Collaborate(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[collaborateRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.To, "to") {
		return
	}

	ack, err := h.eco.Collaborate(r.Context(), urlParam(r, "name"), req.To, agent.Message{
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// ListAgentTasks handles GET /api/v1/agents/{name}/tasks.
func (h *Handlers) ListAgentTasks(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	tasks, err := h.eco.Tasks(r.Context(), name, 100)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agent": name,
		"tasks": tasks,
	})
}

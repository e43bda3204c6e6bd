package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router. The
// prometheusHandler serves the scrape endpoint and may be nil when telemetry
// is disabled; wsHandler may be nil when the hub is disabled.
func MountRoutes(r chi.Router, h *Handlers, prometheusHandler http.Handler, wsHandler http.HandlerFunc) {
	r.Get("/health", h.Health)
	r.Get("/metrics", h.EcosystemMetrics)
	if prometheusHandler != nil {
		r.Method(http.MethodGet, "/prometheus-metrics", prometheusHandler)
	}
	if wsHandler != nil {
		r.Get("/ws", wsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Auth
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/auth/me", h.Me)
		r.Post("/auth/api-keys", h.CreateAPIKey)

		// Agents
		r.Get("/agent-types", h.ListAgentTypes)
		r.Get("/agents", h.ListAgents)
		r.Post("/agents", h.SpawnAgent)
		r.Get("/agents/{name}", h.GetAgent)
		r.Delete("/agents/{name}", h.DeleteAgent)
		r.Get("/agents/{name}/metrics", h.AgentMetrics)
		r.Get("/agents/{name}/tasks", h.ListAgentTasks)
		r.Post("/agents/{name}/tasks", h.ExecuteTask)
		r.Post("/agents/{name}/collaborate", h.Collaborate)
	})
}

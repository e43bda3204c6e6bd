// Package agent defines the agent domain entities: lifecycle states, task
// and result envelopes, monitoring snapshots, and the persisted agent record.
package agent

import "time"

// Record is the persisted view of an agent instance.
type Record struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Config     map[string]any `json:"config"`
	State      State          `json:"state"`
	CreatedAt  time.Time      `json:"created_at"`
	LastActive time.Time      `json:"last_active"`
}

// Snapshot is the structured result of monitoring an agent. Concrete agents
// extend the base snapshot by adding a section keyed by their own type under
// Metrics; the common fields are always present.
type Snapshot struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	State      State          `json:"status"`
	LastActive time.Time      `json:"last_active"`
	Uptime     float64        `json:"uptime"`
	Metrics    map[string]any `json:"metrics"`
}

// MetricsReport is the full metric history of an agent, served by the
// metrics endpoint.
type MetricsReport struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	State   State    `json:"status"`
	Uptime  float64  `json:"uptime"`
	Metrics []Metric `json:"metrics"`
}

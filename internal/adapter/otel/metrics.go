package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentry"

// Metrics holds all ecosystem metric instruments.
type Metrics struct {
	TasksExecuted  metric.Int64Counter
	TaskErrors     metric.Int64Counter
	Collaborations metric.Int64Counter
	AgentsSpawned  metric.Int64Counter
	TaskDuration   metric.Float64Histogram
	HealthyAgents  metric.Int64UpDownCounter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksExecuted, err = meter.Int64Counter("agentry.tasks.executed",
		metric.WithDescription("Number of tasks dispatched to agents"))
	if err != nil {
		return nil, err
	}

	m.TaskErrors, err = meter.Int64Counter("agentry.tasks.errors",
		metric.WithDescription("Number of task executions that returned an error"))
	if err != nil {
		return nil, err
	}

	m.Collaborations, err = meter.Int64Counter("agentry.collaborations",
		metric.WithDescription("Number of agent-to-agent messages"))
	if err != nil {
		return nil, err
	}

	m.AgentsSpawned, err = meter.Int64Counter("agentry.agents.spawned",
		metric.WithDescription("Number of agents created"))
	if err != nil {
		return nil, err
	}

	m.TaskDuration, err = meter.Float64Histogram("agentry.task.duration_seconds",
		metric.WithDescription("Task execution duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.HealthyAgents, err = meter.Int64UpDownCounter("agentry.agents.healthy",
		metric.WithDescription("Number of agents currently in a healthy state"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

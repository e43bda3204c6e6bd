// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/agentry-dev/agentry/internal/domain/agent"
	"github.com/agentry-dev/agentry/internal/domain/user"
)

// Store is the port interface for persistence. The core only relies on
// save-succeeds-or-fails semantics; no transactional coupling.
type Store interface {
	// Agents
	CreateAgent(ctx context.Context, rec *agent.Record) error
	GetAgent(ctx context.Context, id string) (*agent.Record, error)
	GetAgentByName(ctx context.Context, name string) (*agent.Record, error)
	ListAgents(ctx context.Context) ([]agent.Record, error)
	UpdateAgentState(ctx context.Context, id string, state agent.State) error
	DeleteAgent(ctx context.Context, id string) error

	// Agent metrics
	InsertMetric(ctx context.Context, agentID string, m agent.Metric) error
	ListMetrics(ctx context.Context, agentID string, limit int) ([]agent.Metric, error)

	// Tasks
	CreateTask(ctx context.Context, rec *agent.TaskRecord) error
	CompleteTask(ctx context.Context, id string, status agent.ResultStatus, result map[string]any, errMsg string) error
	ListTasksByAgent(ctx context.Context, agentID string, limit int) ([]agent.TaskRecord, error)

	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)

	// API keys
	CreateAPIKey(ctx context.Context, k *user.APIKey) error
	GetAPIKeyByHash(ctx context.Context, hash string) (*user.APIKey, error)
	TouchAPIKey(ctx context.Context, id string) error
}

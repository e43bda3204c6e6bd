package service

import (
	"context"
	"time"

	"github.com/agentry-dev/agentry/internal/domain"
	"github.com/agentry-dev/agentry/internal/domain/agent"
	"github.com/agentry-dev/agentry/internal/domain/user"
	"github.com/agentry-dev/agentry/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory implementation of database.Store for testing.
type mockStore struct {
	agents  []agent.Record
	metrics map[string][]agent.Metric
	tasks   []agent.TaskRecord
	users   []user.User
	keys    []user.APIKey

	// Error hooks. Set these to inject failures.
	createAgentErr error
	createTaskErr  error
	createUserErr  error
}

func (m *mockStore) CreateAgent(_ context.Context, rec *agent.Record) error {
	if m.createAgentErr != nil {
		return m.createAgentErr
	}
	for _, a := range m.agents {
		if a.Name == rec.Name {
			return domain.ErrConflict
		}
	}
	rec.CreatedAt = time.Now().UTC()
	rec.LastActive = rec.CreatedAt
	m.agents = append(m.agents, *rec)
	return nil
}

func (m *mockStore) GetAgent(_ context.Context, id string) (*agent.Record, error) {
	for i := range m.agents {
		if m.agents[i].ID == id {
			return &m.agents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetAgentByName(_ context.Context, name string) (*agent.Record, error) {
	for i := range m.agents {
		if m.agents[i].Name == name {
			return &m.agents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListAgents(_ context.Context) ([]agent.Record, error) {
	return m.agents, nil
}

func (m *mockStore) UpdateAgentState(_ context.Context, id string, state agent.State) error {
	for i := range m.agents {
		if m.agents[i].ID == id {
			m.agents[i].State = state
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteAgent(_ context.Context, id string) error {
	for i := range m.agents {
		if m.agents[i].ID == id {
			m.agents = append(m.agents[:i], m.agents[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) InsertMetric(_ context.Context, agentID string, metric agent.Metric) error {
	if m.metrics == nil {
		m.metrics = make(map[string][]agent.Metric)
	}
	m.metrics[agentID] = append(m.metrics[agentID], metric)
	return nil
}

func (m *mockStore) ListMetrics(_ context.Context, agentID string, _ int) ([]agent.Metric, error) {
	return m.metrics[agentID], nil
}

func (m *mockStore) CreateTask(_ context.Context, rec *agent.TaskRecord) error {
	if m.createTaskErr != nil {
		return m.createTaskErr
	}
	rec.CreatedAt = time.Now().UTC()
	m.tasks = append(m.tasks, *rec)
	return nil
}

func (m *mockStore) CompleteTask(_ context.Context, id string, status agent.ResultStatus, result map[string]any, errMsg string) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			m.tasks[i].Result = result
			m.tasks[i].Error = errMsg
			m.tasks[i].CompletedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListTasksByAgent(_ context.Context, agentID string, _ int) ([]agent.TaskRecord, error) {
	var out []agent.TaskRecord
	for _, t := range m.tasks {
		if t.AgentID == agentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return domain.ErrConflict
		}
	}
	u.CreatedAt = time.Now().UTC()
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateAPIKey(_ context.Context, k *user.APIKey) error {
	k.CreatedAt = time.Now().UTC()
	m.keys = append(m.keys, *k)
	return nil
}

func (m *mockStore) GetAPIKeyByHash(_ context.Context, hash string) (*user.APIKey, error) {
	for i := range m.keys {
		if m.keys[i].KeyHash == hash {
			return &m.keys[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) TouchAPIKey(_ context.Context, id string) error {
	for i := range m.keys {
		if m.keys[i].ID == id {
			m.keys[i].LastUsed = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
}

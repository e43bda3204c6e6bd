package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func (s *Store) CreateAgent(ctx context.Context, rec *agent.Record) error {
	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshal agent config: %w", err)
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.LastActive = now
	_, err = s.pool.Exec(ctx, `
		INSERT INTO agents (id, name, agent_type, config, state, created_at, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Name, rec.Type, configJSON, rec.State, rec.CreatedAt, rec.LastActive,
	)
	if err != nil {
		return conflictWrap(err, "create agent %s", rec.Name)
	}
	return nil
}

func (s *Store) GetAgent(ctx context.Context, id string) (*agent.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, agent_type, config, state, created_at, last_active
		FROM agents WHERE id = $1`, id)

	rec, err := scanAgent(row)
	if err != nil {
		return nil, notFoundWrap(err, "get agent %s", id)
	}
	return &rec, nil
}

func (s *Store) GetAgentByName(ctx context.Context, name string) (*agent.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, agent_type, config, state, created_at, last_active
		FROM agents WHERE name = $1`, name)

	rec, err := scanAgent(row)
	if err != nil {
		return nil, notFoundWrap(err, "get agent %q", name)
	}
	return &rec, nil
}

func (s *Store) ListAgents(ctx context.Context) ([]agent.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, agent_type, config, state, created_at, last_active
		FROM agents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var recs []agent.Record
	for rows.Next() {
		rec, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) UpdateAgentState(ctx context.Context, id string, state agent.State) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE agents SET state = $2, last_active = $3 WHERE id = $1`,
		id, state, time.Now().UTC())
	return execExpectOne(tag, err, "update agent %s state", id)
}

func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete agent %s", id)
}

func scanAgent(row scannable) (agent.Record, error) {
	var rec agent.Record
	var configJSON []byte
	err := row.Scan(&rec.ID, &rec.Name, &rec.Type, &configJSON, &rec.State, &rec.CreatedAt, &rec.LastActive)
	if err != nil {
		return rec, err
	}
	if configJSON != nil {
		if err := json.Unmarshal(configJSON, &rec.Config); err != nil {
			return rec, fmt.Errorf("unmarshal agent config: %w", err)
		}
	}
	return rec, nil
}

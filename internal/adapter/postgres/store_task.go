package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func (s *Store) CreateTask(ctx context.Context, rec *agent.TaskRecord) error {
	paramsJSON, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("marshal task params: %w", err)
	}

	rec.CreatedAt = time.Now().UTC()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tasks (id, agent_id, task_type, params, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.AgentID, rec.Type, paramsJSON, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) CompleteTask(ctx context.Context, id string, status agent.ResultStatus, result map[string]any, errMsg string) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal task result: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks SET status = $2, result = $3, error = $4, completed_at = $5
		WHERE id = $1`,
		id, status, resultJSON, errMsg, time.Now().UTC())
	return execExpectOne(tag, err, "complete task %s", id)
}

func (s *Store) ListTasksByAgent(ctx context.Context, agentID string, limit int) ([]agent.TaskRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, agent_id, task_type, params, status, result, error, created_at, completed_at
		FROM tasks WHERE agent_id = $1
		ORDER BY created_at DESC LIMIT $2`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks for agent %s: %w", agentID, err)
	}
	defer rows.Close()

	var recs []agent.TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanTask(row scannable) (agent.TaskRecord, error) {
	var rec agent.TaskRecord
	var paramsJSON, resultJSON []byte
	var completedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.AgentID, &rec.Type, &paramsJSON, &rec.Status, &resultJSON, &rec.Error, &rec.CreatedAt, &completedAt)
	if err != nil {
		return rec, err
	}
	if paramsJSON != nil {
		if err := json.Unmarshal(paramsJSON, &rec.Params); err != nil {
			return rec, fmt.Errorf("unmarshal task params: %w", err)
		}
	}
	if resultJSON != nil {
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return rec, fmt.Errorf("unmarshal task result: %w", err)
		}
	}
	if completedAt.Valid {
		rec.CompletedAt = completedAt.Time
	}
	return rec, nil
}

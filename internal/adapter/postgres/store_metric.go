package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentry-dev/agentry/internal/domain/agent"
)

func (s *Store) InsertMetric(ctx context.Context, agentID string, m agent.Metric) error {
	valueJSON, err := json.Marshal(m.Value)
	if err != nil {
		return fmt.Errorf("marshal metric value: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO agent_metrics (id, agent_id, metric_name, metric_value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), agentID, m.Name, valueJSON, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert metric %s for agent %s: %w", m.Name, agentID, err)
	}
	return nil
}

func (s *Store) ListMetrics(ctx context.Context, agentID string, limit int) ([]agent.Metric, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT metric_name, metric_value, recorded_at
		FROM agent_metrics WHERE agent_id = $1
		ORDER BY recorded_at DESC LIMIT $2`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list metrics for agent %s: %w", agentID, err)
	}
	defer rows.Close()

	var metrics []agent.Metric
	for rows.Next() {
		var m agent.Metric
		var valueJSON []byte
		if err := rows.Scan(&m.Name, &valueJSON, &m.Timestamp); err != nil {
			return nil, err
		}
		if valueJSON != nil {
			if err := json.Unmarshal(valueJSON, &m.Value); err != nil {
				return nil, fmt.Errorf("unmarshal metric value: %w", err)
			}
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

package agent

import (
	"fmt"
	"time"

	"github.com/agentry-dev/agentry/internal/domain"
)

// Task is the uniform dispatch envelope. Type discriminates the operation;
// Data carries the operation-specific payload.
type Task struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Validate checks that a task is well-formed before dispatch.
func (t *Task) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("task type is required: %w", domain.ErrValidation)
	}
	return nil
}

// Float returns the named field of Data as a float64, or def when absent.
// JSON numbers decode as float64; int values from in-process callers are
// converted.
func (t *Task) Float(key string, def float64) float64 {
	switch v := t.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// String returns the named field of Data as a string, or "" when absent.
func (t *Task) String(key string) string {
	s, _ := t.Data[key].(string)
	return s
}

// RequireString returns the named field of Data as a string, or a
// field-specific validation error when absent or empty.
func (t *Task) RequireString(key string) (string, error) {
	s, ok := t.Data[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("field %q is required: %w", key, domain.ErrValidation)
	}
	return s, nil
}

// ResultStatus reports task outcome in the result envelope.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultError   ResultStatus = "error"
)

// Result is the mandatory task result envelope. Output carries the
// operation-specific fields.
type Result struct {
	Status ResultStatus   `json:"status"`
	Output map[string]any `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Success builds a success result with the given output fields.
func Success(output map[string]any) Result {
	return Result{Status: ResultSuccess, Output: output}
}

// Message is the peer-to-peer collaboration payload exchanged between agents.
type Message struct {
	Subject string         `json:"subject"`
	Body    map[string]any `json:"body,omitempty"`
}

// Ack is the default acknowledgement an agent returns for a received message.
type Ack struct {
	Status string `json:"status"`
	From   string `json:"from"`
}

// TaskRecord is the persisted view of one task execution.
type TaskRecord struct {
	ID          string         `json:"id"`
	AgentID     string         `json:"agent_id"`
	Type        string         `json:"type"`
	Params      map[string]any `json:"params,omitempty"`
	Status      ResultStatus   `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt time.Time      `json:"completed_at,omitzero"`
}

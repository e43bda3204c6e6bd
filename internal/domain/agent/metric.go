package agent

import (
	"sync"
	"time"
)

// Metric is a single timestamped observation recorded by an agent.
type Metric struct {
	Name      string    `json:"name"`
	Value     any       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultMetricCapacity bounds the in-memory metric log when no explicit
// capacity is configured. The log is a ring buffer: once full, recording a
// new metric evicts the oldest entry.
const DefaultMetricCapacity = 1024

// MetricLog is a bounded, append-only, FIFO-ordered metric history.
// It is safe for concurrent use.
type MetricLog struct {
	mu      sync.RWMutex
	entries []Metric
	start   int
	size    int
}

// NewMetricLog creates a metric log holding at most capacity entries.
// A capacity <= 0 falls back to DefaultMetricCapacity.
func NewMetricLog(capacity int) *MetricLog {
	if capacity <= 0 {
		capacity = DefaultMetricCapacity
	}
	return &MetricLog{entries: make([]Metric, capacity)}
}

// Record appends an observation. When the log is full the oldest entry is
// dropped.
func (l *MetricLog) Record(name string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := Metric{Name: name, Value: value, Timestamp: time.Now().UTC()}
	if l.size < len(l.entries) {
		l.entries[(l.start+l.size)%len(l.entries)] = m
		l.size++
		return
	}
	l.entries[l.start] = m
	l.start = (l.start + 1) % len(l.entries)
}

// All returns the recorded metrics in insertion order, oldest first.
func (l *MetricLog) All() []Metric {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Metric, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.entries[(l.start+i)%len(l.entries)]
	}
	return out
}

// Len returns the number of retained metrics.
func (l *MetricLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

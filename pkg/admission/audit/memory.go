package audit

import (
	"context"
	"sync"
	"time"
)

// MemorySink keeps the most recent records in a bounded in-memory ring.
// It is the default sink: fast, no persistence, everything lost on exit.
type MemorySink struct {
	records []*Record // oldest first
	max     int
	mu      sync.RWMutex
}

// NewMemorySink creates a memory sink retaining at most max records.
// max <= 0 falls back to 10,000.
func NewMemorySink(max int) *MemorySink {
	if max <= 0 {
		max = 10000
	}
	return &MemorySink{max: max}
}

// Write implements Sink.
func (m *MemorySink) Write(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record)
	if len(m.records) > m.max {
		m.records = append(m.records[:0], m.records[len(m.records)-m.max:]...)
	}
	return nil
}

// Recent implements Sink.
func (m *MemorySink) Recent(_ context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}

	out := make([]*Record, 0, limit)
	for i := len(m.records) - 1; i >= len(m.records)-limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Cleanup implements Sink.
func (m *MemorySink) Cleanup(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	deleted := 0
	for _, r := range m.records {
		if r.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// Close implements Sink.
func (m *MemorySink) Close() error {
	return nil
}

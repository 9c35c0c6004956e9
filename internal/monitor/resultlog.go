// Package monitor implements the periodic focus check scheduler and
// its in-memory result history.
package monitor

import (
	"sync"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

// DefaultLogCapacity bounds the in-memory check history.
const DefaultLogCapacity = 100

// ResultLog is a bounded history of check results. Once capacity is
// reached the oldest entry is evicted per append. Statistics accumulate
// across evictions and are reset independently of the records.
type ResultLog struct {
	mu       sync.Mutex
	capacity int
	records  []domain.CheckRecord
	head     int
	size     int
	stats    domain.Statistics
}

// NewResultLog creates a log holding at most capacity records.
// Non-positive capacity falls back to DefaultLogCapacity.
func NewResultLog(capacity int) *ResultLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &ResultLog{
		capacity: capacity,
		records:  make([]domain.CheckRecord, capacity),
	}
}

// Append records a completed check, evicting the oldest entry when full.
func (l *ResultLog) Append(record domain.CheckRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tail := (l.head + l.size) % l.capacity
	l.records[tail] = record
	if l.size < l.capacity {
		l.size++
	} else {
		l.head = (l.head + 1) % l.capacity
	}

	l.stats.TotalChecks++
	if record.Focused {
		l.stats.FocusedChecks++
	} else {
		l.stats.DistractedChecks++
	}
}

// Snapshot returns the retained records, oldest first.
func (l *ResultLog) Snapshot() []domain.CheckRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.CheckRecord, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.records[(l.head+i)%l.capacity]
	}
	return out
}

// Len returns the number of retained records.
func (l *ResultLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Clear drops the retained records. Statistics are unaffected.
func (l *ResultLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head = 0
	l.size = 0
}

// Stats returns the accumulated counters.
func (l *ResultLog) Stats() domain.Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// ResetStats zeroes the counters. Retained records are unaffected.
func (l *ResultLog) ResetStats() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = domain.Statistics{}
}

// Package metrics holds the lock-free counters each runtime primitive
// updates as it runs, in the same spirit as the teacher's
// internal/concurrent statistics: plain go.uber.org/atomic fields an
// embedder can read at any time without taking a lock, rather than a
// full metrics-registry/exporter pipeline.
package metrics

import "go.uber.org/atomic"

// PoolStatistics tracks the lifecycle of a worker pool's goroutines and
// tasks.
type PoolStatistics struct {
	WorkersAlive   atomic.Int64
	WorkersCreated atomic.Int64
	WorkersKilled  atomic.Int64
	BlockedWorkers atomic.Int64 // workers that called NotifyThreadBlocked and have not yet unblocked
	TasksSubmitted atomic.Int64
	TasksConsumed  atomic.Int64
	TasksPanicked  atomic.Int64
}

// NewPoolStatistics returns a zeroed PoolStatistics.
func NewPoolStatistics() *PoolStatistics {
	return &PoolStatistics{}
}

// PoolSnapshot is a plain-value copy of PoolStatistics suitable for
// marshaling (atomic.Int64 itself is not a comfortable json.Marshal
// target).
type PoolSnapshot struct {
	WorkersAlive   int64 `json:"workersAlive"`
	WorkersCreated int64 `json:"workersCreated"`
	WorkersKilled  int64 `json:"workersKilled"`
	BlockedWorkers int64 `json:"blockedWorkers"`
	TasksSubmitted int64 `json:"tasksSubmitted"`
	TasksConsumed  int64 `json:"tasksConsumed"`
	TasksPanicked  int64 `json:"tasksPanicked"`
}

// Snapshot reads every counter once and returns a plain copy.
func (p *PoolStatistics) Snapshot() PoolSnapshot {
	return PoolSnapshot{
		WorkersAlive:   p.WorkersAlive.Load(),
		WorkersCreated: p.WorkersCreated.Load(),
		WorkersKilled:  p.WorkersKilled.Load(),
		BlockedWorkers: p.BlockedWorkers.Load(),
		TasksSubmitted: p.TasksSubmitted.Load(),
		TasksConsumed:  p.TasksConsumed.Load(),
		TasksPanicked:  p.TasksPanicked.Load(),
	}
}

// QueueStatistics tracks a serial queue's drain activity.
type QueueStatistics struct {
	Enqueued atomic.Int64
	Drained  atomic.Int64
}

// NewQueueStatistics returns a zeroed QueueStatistics.
func NewQueueStatistics() *QueueStatistics {
	return &QueueStatistics{}
}

// GroupStatistics tracks a group's barrier activity.
type GroupStatistics struct {
	Entered    atomic.Int64
	Left       atomic.Int64
	Notified   atomic.Int64
	Mismatched atomic.Int64 // Async/Notify calls rejected for a foreign backend
}

// NewGroupStatistics returns a zeroed GroupStatistics.
func NewGroupStatistics() *GroupStatistics {
	return &GroupStatistics{}
}

// TimerStatistics tracks a timer's ticks.
type TimerStatistics struct {
	Ticks   atomic.Int64
	Started atomic.Int64
	Stopped atomic.Int64
}

// NewTimerStatistics returns a zeroed TimerStatistics.
func NewTimerStatistics() *TimerStatistics {
	return &TimerStatistics{}
}

// SignalStatistics tracks a signal's delivery and coalescing behavior.
type SignalStatistics struct {
	Fired      atomic.Int64
	Delivered  atomic.Int64
	Coalesced  atomic.Int64
	Suppressed atomic.Int64 // deliveries skipped because the job was disabled/disconnected
}

// NewSignalStatistics returns a zeroed SignalStatistics.
func NewSignalStatistics() *SignalStatistics {
	return &SignalStatistics{}
}

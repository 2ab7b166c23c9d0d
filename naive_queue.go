package xdispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/mlba-team/xdispatch/internal/concurrent"
	"github.com/mlba-team/xdispatch/metrics"
)

// naiveSerialQueue guarantees FIFO, non-overlapping execution of its
// operations on top of the shared pool, per spec.md §4.3: append under
// lock, and if not already draining, submit a drain task at the queue's
// priority. The drain task holds the lock only to peek/pop the front
// operation and to perform the check-and-clear of busy against emptiness;
// user code always runs with the lock released.
type naiveSerialQueue struct {
	label    string
	priority Priority
	pool     concurrent.Pool

	mu   sync.Mutex
	fifo []Operation
	busy bool

	stats *metrics.QueueStatistics
}

func newNaiveSerialQueue(label string, priority Priority, pool concurrent.Pool) *naiveSerialQueue {
	return &naiveSerialQueue{
		label:    label,
		priority: priority,
		pool:     pool,
		stats:    metrics.NewQueueStatistics(),
	}
}

func (q *naiveSerialQueue) Async(op Operation) {
	q.mu.Lock()
	q.fifo = append(q.fifo, op)
	q.stats.Enqueued.Inc()
	start := !q.busy
	if start {
		q.busy = true
	}
	q.mu.Unlock()

	if start {
		q.pool.Execute(concurrent.NewTask(q.drain, nil), toConcurrentPriority(q.priority))
	}
}

// drain repeatedly pops the front operation, releasing the lock during
// invocation, and clears busy only once it observes an empty FIFO with the
// lock still held - otherwise a racing Async between the emptiness check
// and the clear would go unnoticed and its operation would sit forever.
func (q *naiveSerialQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.fifo) == 0 {
			q.busy = false
			q.mu.Unlock()
			return
		}
		op := q.fifo[0]
		q.fifo = q.fifo[1:]
		q.mu.Unlock()

		op.invoke(q)
		q.stats.Drained.Inc()
	}
}

func (q *naiveSerialQueue) After(delay time.Duration, op Operation) {
	time.AfterFunc(delay, func() { q.Async(op) })
}

func (q *naiveSerialQueue) Label() string     { return q.label }
func (q *naiveSerialQueue) Priority() Priority { return q.priority }
func (q *naiveSerialQueue) Backend() BackendTag { return BackendNaive }

// naiveGlobalQueue forwards directly to the pool at a fixed priority; it
// imposes no ordering between the operations it carries.
type naiveGlobalQueue struct {
	priority Priority
	pool     concurrent.Pool
}

func newNaiveGlobalQueue(priority Priority, pool concurrent.Pool) *naiveGlobalQueue {
	return &naiveGlobalQueue{priority: priority, pool: pool}
}

func (q *naiveGlobalQueue) Async(op Operation) {
	q.pool.Execute(concurrent.NewTask(func() { op.invoke(q) }, nil), toConcurrentPriority(q.priority))
}

func (q *naiveGlobalQueue) After(delay time.Duration, op Operation) {
	time.AfterFunc(delay, func() { q.Async(op) })
}

func (q *naiveGlobalQueue) Label() string      { return fmt.Sprintf("global-%s", q.priority) }
func (q *naiveGlobalQueue) Priority() Priority { return q.priority }
func (q *naiveGlobalQueue) Backend() BackendTag { return BackendNaive }

package xdispatch

import (
	"sync"
	"time"

	"github.com/mlba-team/xdispatch/metrics"
)

// naiveMainQueue is the serial queue bound to the naive backend's
// distinguished host thread: a dedicated goroutine loops on a
// condition-variable-guarded FIFO for as long as the process runs, and Exec
// blocks the caller forever, per spec.md §4.5.
type naiveMainQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	fifo []Operation

	stats *metrics.QueueStatistics
}

func newNaiveMainQueue() *naiveMainQueue {
	q := &naiveMainQueue{stats: metrics.NewQueueStatistics()}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *naiveMainQueue) Async(op Operation) {
	q.mu.Lock()
	q.fifo = append(q.fifo, op)
	q.stats.Enqueued.Inc()
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *naiveMainQueue) After(delay time.Duration, op Operation) {
	time.AfterFunc(delay, func() { q.Async(op) })
}

func (q *naiveMainQueue) Label() string      { return "main" }
func (q *naiveMainQueue) Priority() Priority { return Default }
func (q *naiveMainQueue) Backend() BackendTag { return BackendNaive }

// run is the dedicated main-thread loop, started once at queue creation so
// operations posted before Exec() is ever called still drain in order.
func (q *naiveMainQueue) run() {
	for {
		q.mu.Lock()
		for len(q.fifo) == 0 {
			q.cond.Wait()
		}
		op := q.fifo[0]
		q.fifo = q.fifo[1:]
		q.mu.Unlock()

		op.invoke(q)
		q.stats.Drained.Inc()
	}
}

// exec blocks forever: the naive backend never returns control once the
// main loop starts, matching the original's "this function will never
// return."
func (q *naiveMainQueue) exec() error {
	select {}
}

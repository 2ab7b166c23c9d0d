// Package concurrent is the worker pool the naive backend schedules every
// operation through: it owns the OS threads, accepts prioritized tasks, and
// grows when a running task announces it is about to block on something
// only another worker can unblock (a timer's sleep, most commonly).
//
// It is deliberately independent of the rest of this module - it schedules
// opaque *Task values, not xdispatch.Operation - so any future backend
// could reuse it without importing the root package.
package concurrent

//go:generate mockgen -source=./pool.go -destination=./pool_mock.go -package=concurrent

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/lindb/common/pkg/logger"

	"github.com/mlba-team/xdispatch/internal/trace"
	"github.com/mlba-team/xdispatch/metrics"
)

// Priority is the pool's own scheduling-hint type: five ready queues,
// highest index served first whenever more than one is non-empty.
type Priority int

const (
	Background Priority = iota
	Utility
	Default
	UserInitiated
	UserInteractive

	numPriorities = int(UserInteractive) + 1
)

const (
	// readyWorkerQueueSize bounds how many idle workers may park waiting
	// to be handed a task; sized generously since parking costs nothing
	// but a blocked channel receive.
	readyWorkerQueueSize = 256
	// defaultIdleGrace is how long an excess worker (alive count above
	// the current soft cap) is allowed to sit idle before the reaper
	// retires it.
	defaultIdleGrace = 5 * time.Second
)

// PoolOptions configures a Pool's sizing knobs. The zero value selects the
// pool's own built-in defaults, so a caller with no tunables to apply can
// pass PoolOptions{} unchanged.
type PoolOptions struct {
	// BaseWorkers is the minimum worker count kept alive at rest. Zero or
	// negative selects runtime.NumCPU() (at least one).
	BaseWorkers int
	// IdleGrace is how long a worker above the current soft cap - whether
	// that cap is BaseWorkers or BaseWorkers raised by an outstanding
	// NotifyThreadBlocked - sits idle before the reaper retires it. The
	// same grace governs both cases: a worker spawned only to cover a
	// blocked thread is, once that thread unblocks, simply a worker above
	// cap like any other, and decays on the identical timer. Zero or
	// negative selects defaultIdleGrace.
	IdleGrace time.Duration
}

// Task is a one-shot unit of work the pool executes on some worker.
type Task struct {
	handle      func()
	panicHandle func(err error)
	createdAt   time.Time
}

// NewTask wraps handle as a Task. panicHandle, if non-nil, is invoked with
// the recovered value (wrapped as an error) if handle panics; it must not
// itself block or panic.
func NewTask(handle func(), panicHandle func(err error)) *Task {
	return &Task{handle: handle, panicHandle: panicHandle, createdAt: time.Now()}
}

// Invoke runs the task's handle directly, without panic recovery. Workers
// go through execTask instead; this exists so a Pool substitute (e.g. a
// gomock.Mock) can drive a task the same way a real worker would.
func (t *Task) Invoke() {
	if t.handle != nil {
		t.handle()
	}
}

// Pool accepts prioritized tasks and runs them on a dynamically sized set
// of goroutines.
type Pool interface {
	// Execute schedules task to run on some worker at the given
	// priority. Non-blocking.
	Execute(task *Task, priority Priority)
	// NotifyThreadBlocked announces that the calling worker is about to
	// block on something the pool itself would need to unblock. The
	// pool ensures at least one additional worker stays free to make
	// progress.
	NotifyThreadBlocked()
	// NotifyThreadUnblocked reverses a prior NotifyThreadBlocked.
	NotifyThreadUnblocked()
	// Stopped reports whether Stop has been called.
	Stopped() bool
	// Stop stops all workers once pending tasks have run.
	Stop()
	// Stats returns the pool's live counters.
	Stats() *metrics.PoolStatistics
}

// pool is the naive, in-process Pool implementation.
type pool struct {
	name string

	mu    sync.Mutex
	ready [numPriorities][]*Task
	wake  chan struct{} // signaled (non-blocking) whenever a task is enqueued or the pool is stopped

	closed atomic.Bool

	readyWorkers chan *worker

	base    int64 // initial/minimum worker count, PoolOptions.BaseWorkers or runtime.NumCPU()
	blocked atomic.Int64
	alive   atomic.Int64

	idleGrace    time.Duration
	reaperDone   chan struct{}
	dispatchDone chan struct{}

	stats *metrics.PoolStatistics
	trace *trace.Sink
	log   logger.Logger
}

// NewPool returns a running Pool, seeded per opts (or runtime.NumCPU()
// workers and a 5s idle grace, for a zero-value PoolOptions).
func NewPool(name string, stats *metrics.PoolStatistics, opts PoolOptions) Pool {
	base := opts.BaseWorkers
	if base < 1 {
		base = runtime.NumCPU()
	}
	if base < 1 {
		base = 1
	}
	idleGrace := opts.IdleGrace
	if idleGrace <= 0 {
		idleGrace = defaultIdleGrace
	}
	readyCap := readyWorkerQueueSize
	if base > readyCap {
		readyCap = base
	}
	p := &pool{
		name:         name,
		wake:         make(chan struct{}, 1),
		readyWorkers: make(chan *worker, readyCap),
		base:         int64(base),
		idleGrace:    idleGrace,
		reaperDone:   make(chan struct{}),
		dispatchDone: make(chan struct{}),
		stats:        stats,
		trace:        trace.New("Pool", name),
		log:          logger.GetLogger("Pool", name),
	}
	for i := 0; i < base; i++ {
		p.readyWorkers <- p.spawnWorker()
	}
	go p.dispatch()
	go p.reap()
	return p
}

func (p *pool) cap() int64 {
	return p.base + p.blocked.Load()
}

func (p *pool) signalWake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *pool) Execute(task *Task, priority Priority) {
	if task == nil || task.handle == nil || p.Stopped() {
		return
	}
	if priority < 0 {
		priority = Default
	}
	if int(priority) >= numPriorities {
		priority = UserInteractive
	}
	p.mu.Lock()
	p.ready[priority] = append(p.ready[priority], task)
	p.mu.Unlock()
	p.stats.TasksSubmitted.Inc()
	p.signalWake()
}

func (p *pool) NotifyThreadBlocked() {
	p.blocked.Inc()
	p.stats.BlockedWorkers.Inc()
	if len(p.readyWorkers) == 0 {
		p.readyWorkers <- p.spawnWorker()
	}
}

func (p *pool) NotifyThreadUnblocked() {
	p.blocked.Dec()
	p.stats.BlockedWorkers.Dec()
}

func (p *pool) Stopped() bool {
	return p.closed.Load()
}

func (p *pool) Stats() *metrics.PoolStatistics {
	return p.stats
}

// backlogEmptyLocked reports whether every priority queue is empty. Caller
// must hold p.mu.
func (p *pool) backlogEmptyLocked() bool {
	for i := range p.ready {
		if len(p.ready[i]) > 0 {
			return false
		}
	}
	return true
}

// popHighestLocked removes and returns the head of the highest-priority
// non-empty queue. Caller must hold p.mu and have verified the backlog is
// non-empty.
func (p *pool) popHighestLocked() *Task {
	for i := numPriorities - 1; i >= 0; i-- {
		if len(p.ready[i]) > 0 {
			t := p.ready[i][0]
			p.ready[i] = p.ready[i][1:]
			return t
		}
	}
	return nil
}

// dispatch is work-conserving: it never leaves a runnable task waiting
// while a worker is idle and able to run it.
func (p *pool) dispatch() {
	defer close(p.dispatchDone)
	for {
		p.mu.Lock()
		for p.backlogEmptyLocked() && !p.closed.Load() {
			p.mu.Unlock()
			<-p.wake
			p.mu.Lock()
		}
		if p.closed.Load() && p.backlogEmptyLocked() {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		// Pick the task only once a worker is in hand, so a higher-priority
		// task enqueued while every worker was busy is still served first.
		w := p.mustGetWorker()
		p.mu.Lock()
		task := p.popHighestLocked()
		p.mu.Unlock()
		w.execute(task)
	}
}

// mustGetWorker returns an idle worker, spawning a new one if the pool has
// not yet reached its current soft cap; otherwise it waits for one to free
// up.
func (p *pool) mustGetWorker() *worker {
	select {
	case w := <-p.readyWorkers:
		return w
	default:
	}
	if p.alive.Load() < p.cap() {
		return p.spawnWorker()
	}
	return <-p.readyWorkers
}

func (p *pool) spawnWorker() *worker {
	w := &worker{pool: p, tasks: make(chan *Task), stopCh: make(chan struct{})}
	p.alive.Inc()
	p.stats.WorkersAlive.Inc()
	p.stats.WorkersCreated.Inc()
	go w.process()
	return w
}

// tryReapOne retires one idle worker above the soft cap, if any is
// currently parked. It reports whether it found one.
func (p *pool) tryReapOne() bool {
	if p.alive.Load() <= p.cap() {
		return false
	}
	select {
	case w := <-p.readyWorkers:
		w.stop()
		return true
	default:
		return false
	}
}

// reap wakes once per idleGrace and, while the alive count is above the
// current soft cap, retires workers that are parked idle at that moment; it
// does not track how long each of them has been idle.
func (p *pool) reap() {
	ticker := time.NewTicker(p.idleGrace)
	defer ticker.Stop()
	defer close(p.reaperDone)
	for {
		select {
		case <-p.dispatchDone:
			return
		case <-ticker.C:
			for p.tryReapOne() {
			}
		}
	}
}

func (p *pool) execTask(task *Task) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.TasksPanicked.Inc()
			err := panicToError(r)
			p.trace.HandlerFault(err)
			if task.panicHandle != nil {
				task.panicHandle(err)
			}
		}
	}()
	task.handle()
	p.stats.TasksConsumed.Inc()
}

// Stop drains pending tasks, then stops every worker. A worker already
// executing a task finishes it first.
func (p *pool) Stop() {
	if p.closed.Swap(true) {
		return
	}
	p.signalWake()
	<-p.dispatchDone
	<-p.reaperDone

	for p.alive.Load() > 0 {
		select {
		case w := <-p.readyWorkers:
			w.stop()
		default:
			runtime.Gosched()
		}
	}

	p.mu.Lock()
	var remaining []*Task
	for i := numPriorities - 1; i >= 0; i-- {
		remaining = append(remaining, p.ready[i]...)
		p.ready[i] = nil
	}
	p.mu.Unlock()
	for _, t := range remaining {
		p.execTask(t)
	}
}

// worker executes tasks handed to it by the dispatcher and re-registers
// itself as ready afterwards, mirroring the teacher's worker/dispatcher
// split.
type worker struct {
	pool   *pool
	tasks  chan *Task
	stopCh chan struct{}
}

func (w *worker) execute(task *Task) {
	w.tasks <- task
}

func (w *worker) stop() {
	close(w.stopCh)
	w.pool.alive.Dec()
	w.pool.stats.WorkersAlive.Dec()
	w.pool.stats.WorkersKilled.Inc()
}

func (w *worker) process() {
	for {
		select {
		case <-w.stopCh:
			return
		case task := <-w.tasks:
			w.pool.execTask(task)
			select {
			case w.pool.readyWorkers <- w:
			case <-w.stopCh:
				return
			}
		}
	}
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{value: r}
}

type panicError struct{ value any }

func (e *panicError) Error() string { return "panic: " + toString(e.value) }

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if stringer, ok := v.(interface{ String() string }); ok {
		return stringer.String()
	}
	return "non-string panic value"
}

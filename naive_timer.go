package xdispatch

import (
	"runtime"
	"sync"
	"time"

	"github.com/mlba-team/xdispatch/internal/concurrent"
	"github.com/mlba-team/xdispatch/metrics"
)

// naiveTimer drives a repeating operation on top of the shared pool without
// starving it: the driver task announces itself blocked for the duration of
// its sleeps (spec.md §4.7), and releases its own lock around both the
// target queue submission and the sleep - the "inverse lock guard" design
// note from spec.md §9 - so mutating the timer while it runs never
// deadlocks against the driver loop.
//
// generation guards against overlapping drivers: each Start bumps it, and a
// driver loop still waking up from a stale generation's sleep exits instead
// of ticking, giving "at most one driver active" as a practical guarantee
// even though a just-superseded driver may still be asleep for one more
// interval, mirroring the original's best-effort stop() semantics.
//
// newNaiveTimer registers a finalizer that calls stop once the timer becomes
// unreachable. This is best-effort only: a running driver loop itself holds
// a reference to the timer, so a timer dropped while running is not stopped
// by the finalizer and keeps ticking until Stop is called.
type naiveTimer struct {
	pool concurrent.Pool

	mu         sync.Mutex
	interval   time.Duration
	latency    Precision
	handler    Operation
	target     Queue
	running    bool
	generation uint64

	stats *metrics.TimerStatistics
}

func newNaiveTimer(pool concurrent.Pool, interval time.Duration, target Queue) Timer {
	t := &naiveTimer{
		pool:     pool,
		interval: interval,
		target:   target,
		stats:    metrics.NewTimerStatistics(),
	}
	runtime.SetFinalizer(t, func(t *naiveTimer) { t.stop() })
	return newTimer(t)
}

func (t *naiveTimer) tag() BackendTag { return BackendNaive }

func (t *naiveTimer) setInterval(d time.Duration) {
	t.mu.Lock()
	t.interval = d
	t.mu.Unlock()
}

func (t *naiveTimer) setLatency(p Precision) {
	t.mu.Lock()
	t.latency = p
	t.mu.Unlock()
}

func (t *naiveTimer) setHandler(op Operation) {
	t.mu.Lock()
	t.handler = op
	t.mu.Unlock()
}

func (t *naiveTimer) setTarget(q Queue) {
	t.mu.Lock()
	t.target = q
	t.mu.Unlock()
}

func (t *naiveTimer) start(delay time.Duration) {
	t.mu.Lock()
	t.running = true
	t.generation++
	gen := t.generation
	target := t.target
	t.mu.Unlock()

	t.stats.Started.Inc()

	priority := Default
	if target != nil {
		priority = target.Priority()
	}
	task := concurrent.NewTask(func() { t.loop(gen, delay) }, nil)
	t.pool.Execute(task, toConcurrentPriority(priority))
}

func (t *naiveTimer) loop(gen uint64, delay time.Duration) {
	t.pool.NotifyThreadBlocked()
	defer t.pool.NotifyThreadUnblocked()

	if delay > 0 {
		time.Sleep(delay)
	}

	for {
		t.mu.Lock()
		if !t.running || t.generation != gen {
			t.mu.Unlock()
			return
		}
		handler := t.handler
		interval := t.interval
		target := t.target
		t.mu.Unlock() // inverse lock guard: never hold the lock across dispatch or sleep

		if target != nil && handler.run != nil {
			target.Async(handler)
			t.stats.Ticks.Inc()
		}

		time.Sleep(interval)
	}
}

func (t *naiveTimer) stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.stats.Stopped.Inc()
}

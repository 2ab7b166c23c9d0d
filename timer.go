package xdispatch

import "time"

// Precision is an advisory hint about how strictly a backend should honor a
// timer's interval. It exists for source compatibility with backends that
// delegate to a host scheduler capable of coalescing wakeups; the naive
// backend ignores it entirely.
type Precision int

const (
	// PrecisionStandard lets the backend coalesce or delay the timer for
	// power/efficiency if it is able to.
	PrecisionStandard Precision = iota
	// PrecisionCritical asks the backend to fire as close to the
	// requested interval as it can.
	PrecisionCritical
)

// timerImpl is the backend-specific driver a Timer handle wraps.
type timerImpl interface {
	tag() BackendTag
	setInterval(d time.Duration)
	setLatency(p Precision)
	setHandler(op Operation)
	setTarget(q Queue)
	start(delay time.Duration)
	stop()
}

// Timer repeatedly submits its handler operation to its target queue, at
// most one driver goroutine active at a time. Mutating Interval, Handler or
// TargetQueue while running takes effect no later than the iteration
// following the mutation; Stop is best-effort and does not wait for an
// already-scheduled final iteration.
type Timer struct {
	impl timerImpl
}

func newTimer(impl timerImpl) Timer {
	return Timer{impl: impl}
}

// Interval sets the repeat interval. Zero means "as fast as the backend
// will schedule it."
func (t Timer) Interval(d time.Duration) Timer {
	t.impl.setInterval(d)
	return t
}

// Latency sets the advisory precision hint.
func (t Timer) Latency(p Precision) Timer {
	t.impl.setLatency(p)
	return t
}

// Handler sets the operation run on every tick.
func (t Timer) Handler(op Operation) Timer {
	t.impl.setHandler(op)
	return t
}

// TargetQueue sets the queue the handler is submitted to.
func (t Timer) TargetQueue(q Queue) Timer {
	t.impl.setTarget(q)
	return t
}

// Start begins the timer, waiting delay before the first tick. Calling
// Start while already running restarts the initial delay countdown.
func (t Timer) Start(delay time.Duration) {
	t.impl.start(delay)
}

// Stop requests the timer stop. It does not wait: a tick already submitted
// to the pool before the stop is observed may still run.
func (t Timer) Stop() {
	t.impl.stop()
}

// Backend reports which backend family created this timer.
func (t Timer) Backend() BackendTag {
	return t.impl.tag()
}

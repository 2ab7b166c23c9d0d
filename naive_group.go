package xdispatch

import (
	"sync"
	"time"

	"github.com/mlba-team/xdispatch/metrics"
)

type groupNotifier struct {
	op Operation
	q  Queue
}

// naiveGroup is a counting barrier: count tracks outstanding work, and
// notifiers fire, in order, exactly once on the edge from positive back to
// zero - never on the initial zero state. doneCh is closed on that edge and
// replaced, so Wait can select on it with an optional timeout without
// needing a condition variable.
type naiveGroup struct {
	mu        sync.Mutex
	count     int64
	doneCh    chan struct{}
	notifiers []groupNotifier

	stats *metrics.GroupStatistics
}

func newNaiveGroup() Group {
	return newGroup(&naiveGroup{
		doneCh: make(chan struct{}),
		stats:  metrics.NewGroupStatistics(),
	})
}

func (g *naiveGroup) tag() BackendTag { return BackendNaive }

func (g *naiveGroup) enter() {
	g.mu.Lock()
	g.count++
	g.mu.Unlock()
	g.stats.Entered.Inc()
}

func (g *naiveGroup) leave() {
	g.mu.Lock()
	g.count--
	var fire []groupNotifier
	var signalDone chan struct{}
	if g.count == 0 {
		fire = g.notifiers
		g.notifiers = nil
		signalDone = g.doneCh
		g.doneCh = make(chan struct{})
	}
	g.mu.Unlock()
	g.stats.Left.Inc()

	if signalDone != nil {
		close(signalDone)
	}
	for _, n := range fire {
		n.q.Async(n.op)
		g.stats.Notified.Inc()
	}
}

func (g *naiveGroup) async(op Operation, q Queue) error {
	if q.Backend() != g.tag() {
		g.stats.Mismatched.Inc()
		return ErrBackendMismatch
	}
	g.enter()
	wrapped := Operation{run: func() {
		defer g.leave()
		op.run()
	}}
	q.Async(wrapped)
	return nil
}

func (g *naiveGroup) notify(op Operation, q Queue) error {
	if q.Backend() != g.tag() {
		g.stats.Mismatched.Inc()
		return ErrBackendMismatch
	}
	g.mu.Lock()
	if g.count == 0 {
		g.mu.Unlock()
		q.Async(op)
		g.stats.Notified.Inc()
		return nil
	}
	g.notifiers = append(g.notifiers, groupNotifier{op: op, q: q})
	g.mu.Unlock()
	return nil
}

func (g *naiveGroup) wait(timeout time.Duration) bool {
	g.mu.Lock()
	if g.count == 0 {
		g.mu.Unlock()
		return true
	}
	done := g.doneCh
	g.mu.Unlock()

	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

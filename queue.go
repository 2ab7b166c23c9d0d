package xdispatch

import "github.com/mlba-team/xdispatch/internal/gls"

// Queue is a reference-counted handle over a backend-specific
// implementation. A serial queue never runs two operations concurrently; a
// concurrent/global queue imposes no such restriction. A main queue is a
// serial queue whose executor is a distinguished host thread.
type Queue interface {
	// Async enqueues op for execution; it is non-blocking.
	Async(op Operation)
	// After enqueues op for execution no sooner than delay from now.
	After(delay Duration, op Operation)
	// Label returns the queue's human-readable label.
	Label() string
	// Priority returns the queue's scheduling priority.
	Priority() Priority
	// Backend returns the tag of the backend this queue belongs to.
	Backend() BackendTag
}

// CurrentQueue returns the queue the calling code is presently dispatched
// on. It fails with ErrNoCurrentQueue when called from outside a dispatched
// operation (e.g. from the goroutine that called Exec, or from a goroutine
// the runtime never scheduled work onto).
func CurrentQueue() (Queue, error) {
	v, ok := gls.Get()
	if !ok {
		return nil, ErrNoCurrentQueue
	}
	q, ok := v.(Queue)
	if !ok || q == nil {
		return nil, ErrNoCurrentQueue
	}
	return q, nil
}

// setCurrentQueue installs q as the current queue for the calling goroutine
// and returns whatever was installed before it, so callers can restore it
// once their operation completes (queues are not necessarily drained by a
// goroutine dedicated to only ever running work from that one queue - the
// same pool worker drains many queues over its lifetime).
func setCurrentQueue(q Queue) Queue {
	prev := gls.Set(q)
	if prev == nil {
		return nil
	}
	pq, _ := prev.(Queue)
	return pq
}

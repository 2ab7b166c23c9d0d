package xdispatch

import "time"

// groupImpl is the backend-specific implementation a Group handle wraps.
// Keeping Group a thin pimpl over this interface mirrors how Queue/Timer are
// also handles over backend state, so a future host-integrated backend can
// supply its own Group without touching the public API.
type groupImpl interface {
	tag() BackendTag
	enter()
	leave()
	async(op Operation, q Queue) error
	notify(op Operation, q Queue) error
	wait(timeout time.Duration) bool
}

// Group is a counting barrier over a set of queued operations: Wait blocks
// until every operation submitted via Async has completed, and Notify lets
// callers attach a callback that fires once, on the edge from "outstanding
// work exists" back to zero.
type Group struct {
	impl groupImpl
}

func newGroup(impl groupImpl) Group {
	return Group{impl: impl}
}

// Enter increments the outstanding-work counter. Pair with a matching Leave;
// most callers should prefer Async, which pairs Enter/Leave automatically.
func (g Group) Enter() {
	g.impl.enter()
}

// Leave decrements the outstanding-work counter. If it reaches zero, every
// queued notifier fires exactly once and Wait(s) waiting on the group
// return.
func (g Group) Leave() {
	g.impl.leave()
}

// Async submits op to q, first calling Enter and guaranteeing a matching
// Leave once op returns (even if op panics - the panic is still recovered
// and traced by the pool worker boundary, but Leave always runs first via
// the pool's recover+defer ordering). Async fails with ErrBackendMismatch
// if q belongs to a different backend than g.
func (g Group) Async(op Operation, q Queue) error {
	return g.impl.async(op, q)
}

// Notify runs op on q once the group's outstanding-work counter next
// reaches zero. If the counter is already zero at call time, op runs
// immediately (well, is submitted immediately - Notify itself never
// blocks). Fails with ErrBackendMismatch for a foreign-backend queue.
func (g Group) Notify(op Operation, q Queue) error {
	return g.impl.notify(op, q)
}

// Wait blocks the calling goroutine until the outstanding-work counter
// reaches zero or timeout elapses, whichever comes first. A zero or
// negative timeout waits forever. It returns true if the counter reached
// zero, false on timeout.
func (g Group) Wait(timeout time.Duration) bool {
	return g.impl.wait(timeout)
}

// Backend reports which backend family created this group.
func (g Group) Backend() BackendTag {
	return g.impl.tag()
}

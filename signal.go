package xdispatch

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/mlba-team/xdispatch/metrics"
)

// Mode is a per-subscriber policy on whether fires coalesce while a
// delivery is in flight.
type Mode int

const (
	// SingleUpdates schedules a delivery for every fire; no loss, no
	// coalescing.
	SingleUpdates Mode = iota
	// BatchUpdates guarantees at most one delivery in flight per job: a
	// fire that lands while one is already scheduled or running is
	// coalesced into a single trailing delivery carrying the args of the
	// fire that armed it; later coalesced fires' args are dropped.
	BatchUpdates
)

// jobState is the scheduling state of a single BatchUpdates job. Exactly
// one delivery is ever in flight (scheduled-but-not-started, or running)
// for a given job; every other concurrent fire only flips a bit.
type jobState int32

const (
	jobIdle jobState = iota
	jobScheduled
	jobRunning
	jobRunningPending // running, and at least one more fire arrived meanwhile
)

// signalHandle is the non-generic face every Signal[T] presents to
// Connection/ScopedConnection/ConnectionManager, which otherwise could not
// be written as ordinary (non-generic) exported types.
type signalHandle interface {
	disconnectJob(id uuid.UUID) bool
	jobConnected(id uuid.UUID) bool
}

// Connection is a weak handle identifying a job inside a signal: it holds
// only an id and a pointer back to the signal, and looks the job up by id
// on every call, so a job removed by a concurrent Disconnect (or by the
// signal's own destruction) is simply "not found" rather than a dangling
// pointer - the "weak identity + parent lookup" design note of spec.md §9.
type Connection struct {
	id  uuid.UUID
	sig signalHandle
}

// Disconnect removes the connection's job, if still registered. It is
// idempotent: the first call that actually removes the job returns true;
// every call after that, on this connection or a copy of it taken before
// disconnecting, returns false.
func (c *Connection) Disconnect() bool {
	if c == nil || c.sig == nil {
		return false
	}
	ok := c.sig.disconnectJob(c.id)
	c.sig = nil
	return ok
}

// Connected reports whether the job is still registered with its signal.
func (c Connection) Connected() bool {
	if c.sig == nil {
		return false
	}
	return c.sig.jobConnected(c.id)
}

// ScopedConnection owns a Connection and disconnects it once the
// ScopedConnection becomes unreachable. Go has no deterministic
// destructors, so this is enforced with a best-effort runtime.SetFinalizer
// in addition to an explicit Disconnect a caller can invoke eagerly;
// callers that need a guaranteed disconnect point should call Disconnect
// themselves rather than rely on GC timing.
type ScopedConnection struct {
	conn Connection
}

// NewScopedConnection takes ownership of c.
func NewScopedConnection(c Connection) *ScopedConnection {
	sc := &ScopedConnection{conn: c}
	runtime.SetFinalizer(sc, func(s *ScopedConnection) { s.conn.Disconnect() })
	return sc
}

// Connected reports whether the owned connection's job is still registered.
func (s *ScopedConnection) Connected() bool { return s.conn.Connected() }

// Disconnect disconnects the owned connection now, rather than waiting for
// finalization.
func (s *ScopedConnection) Disconnect() bool {
	runtime.SetFinalizer(s, nil)
	return s.conn.Disconnect()
}

// Take returns the owned connection and disarms the finalizer, transferring
// ownership back to the caller.
func (s *ScopedConnection) Take() Connection {
	runtime.SetFinalizer(s, nil)
	c := s.conn
	s.conn = Connection{}
	return c
}

// ConnectionManager owns a set of scoped connections, breaking the
// ownership cycle that forms when a handler closure captures a strong
// reference to the object that also owns the connection (spec.md §9):
// the owning object keeps a ConnectionManager instead of the raw
// connections, and disconnects them all from one place.
type ConnectionManager struct {
	mu    sync.Mutex
	conns []*ScopedConnection
}

// Add appends c, taking ownership of it, and returns the manager for
// chaining (the Go rendering of operator+=).
func (m *ConnectionManager) Add(c Connection) *ConnectionManager {
	m.mu.Lock()
	m.conns = append(m.conns, NewScopedConnection(c))
	m.mu.Unlock()
	return m
}

// ResetConnections disconnects and forgets every owned connection.
func (m *ConnectionManager) ResetConnections() {
	m.mu.Lock()
	conns := m.conns
	m.conns = nil
	m.mu.Unlock()
	for _, c := range conns {
		c.Disconnect()
	}
}

// ResetConnectionsWith disconnects and forgets only the connections bound
// to sig (a *Signal[T] for some T).
func (m *ConnectionManager) ResetConnectionsWith(sig any) {
	sh, ok := sig.(signalHandle)
	if !ok {
		return
	}
	m.mu.Lock()
	var keep, remove []*ScopedConnection
	for _, c := range m.conns {
		if c.conn.sig == sh {
			remove = append(remove, c)
		} else {
			keep = append(keep, c)
		}
	}
	m.conns = keep
	m.mu.Unlock()
	for _, c := range remove {
		c.Disconnect()
	}
}

// job is one subscription's control block: its target queue, handler, and
// (for BatchUpdates) the in-flight scheduling state that guarantees at most
// one delivery outstanding at a time.
type job[T any] struct {
	id      uuid.UUID
	queue   Queue
	mode    Mode
	handler func(T)

	skip      atomic.Bool // set by SkipAll; new fires are dropped while true
	connected atomic.Bool // cleared by disconnectJob; an in-flight delivery still honors this

	state      atomic.Int32 // jobState, BatchUpdates only
	latestArgs atomic.Value // boxes the T of the fire that armed the next delivery, BatchUpdates only
}

// Signal is a multi-subscriber event typed by its argument T. Deliveries
// are queued per subscriber through the signal's own internal Group, which
// also lets Close wait until no handler is still executing.
type Signal[T any] struct {
	mu    sync.Mutex
	jobs  []*job[T]
	group Group

	stats *metrics.SignalStatistics
}

// NewSignal creates a signal whose internal delivery group belongs to the
// default backend.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{
		group: CreateGroup(),
		stats: metrics.NewSignalStatistics(),
	}
}

// Connect registers handler against queue with the given coalescing mode
// and returns a Connection identifying it.
func (s *Signal[T]) Connect(handler func(T), queue Queue, mode Mode) Connection {
	j := &job[T]{id: uuid.New(), queue: queue, mode: mode, handler: handler}
	j.connected.Store(true)

	s.mu.Lock()
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()

	return Connection{id: j.id, sig: s}
}

// SkipAll stops scheduling new deliveries for every currently connected
// job. A delivery already in flight still runs to completion; jobs remain
// connected but receive no further deliveries, and there is no call that
// lifts the skip on an existing job - a handler connected afterwards with
// Connect is a new job and receives fires normally.
func (s *Signal[T]) SkipAll() {
	s.mu.Lock()
	for _, j := range s.jobs {
		j.skip.Store(true)
	}
	s.mu.Unlock()
}

// Emit fires the signal with args. Every SingleUpdates job gets a delivery
// per fire, carrying that fire's own args. Every BatchUpdates job gets at
// most one delivery in flight; a fire that lands while one is already
// scheduled or running only flips the job's state and is otherwise dropped
// without inspecting args - the delivery that follows carries the args of
// whichever fire armed it, not whichever fired last. The whole fan-out only
// calls non-blocking group/queue Async, so Emit itself never stalls waiting
// for a handler.
func (s *Signal[T]) Emit(args T) {
	s.mu.Lock()
	jobs := make([]*job[T], len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	s.stats.Fired.Inc()
	for _, j := range jobs {
		if j.skip.Load() {
			s.stats.Suppressed.Inc()
			continue
		}
		switch j.mode {
		case SingleUpdates:
			jb, a := j, args
			if err := s.group.Async(NewOperation(func() { s.deliverSingle(jb, a) }), jb.queue); err != nil {
				s.stats.Suppressed.Inc()
			}
		case BatchUpdates:
			s.scheduleBatch(j, args)
		}
	}
}

// batchArgs boxes a BatchUpdates fire's payload so atomic.Value always sees
// the same concrete type regardless of T.
type batchArgs[T any] struct{ v T }

func boxBatchArgs[T any](v T) any { return batchArgs[T]{v: v} }

func (s *Signal[T]) deliverSingle(j *job[T], args T) {
	if !j.connected.Load() {
		s.stats.Suppressed.Inc()
		return
	}
	j.handler(args)
	s.stats.Delivered.Inc()
}

// scheduleBatch advances j's state machine on a fire. Only the fire that
// actually arms a delivery - idle going to scheduled, or running going to
// runningPending - stores its args; a fire that finds the job already
// scheduled or already pending is pure coalescing and never touches args,
// so the eventual delivery carries the snapshot taken at the fire that
// scheduled it, never a later, dropped one.
func (s *Signal[T]) scheduleBatch(j *job[T], args T) {
	for {
		cur := jobState(j.state.Load())
		switch cur {
		case jobIdle:
			if j.state.CAS(int32(cur), int32(jobScheduled)) {
				j.latestArgs.Store(boxBatchArgs(args))
				s.dispatchBatch(j)
				return
			}
		case jobScheduled, jobRunningPending:
			s.stats.Coalesced.Inc()
			return
		case jobRunning:
			if j.state.CAS(int32(cur), int32(jobRunningPending)) {
				j.latestArgs.Store(boxBatchArgs(args))
				s.stats.Coalesced.Inc()
				return
			}
		}
	}
}

func (s *Signal[T]) dispatchBatch(j *job[T]) {
	if err := s.group.Async(NewOperation(func() { s.runBatch(j) }), j.queue); err != nil {
		j.state.Store(int32(jobIdle))
		s.stats.Suppressed.Inc()
	}
}

// runBatch delivers the args stashed by the fire that scheduled this run,
// then checks whether another fire armed a follow-up while it ran; if so it
// reschedules itself instead of going idle.
func (s *Signal[T]) runBatch(j *job[T]) {
	if !j.state.CAS(int32(jobScheduled), int32(jobRunning)) {
		return
	}

	if j.connected.Load() {
		if boxed, ok := j.latestArgs.Load().(batchArgs[T]); ok {
			j.handler(boxed.v)
			s.stats.Delivered.Inc()
		}
	} else {
		s.stats.Suppressed.Inc()
	}

	for {
		cur := jobState(j.state.Load())
		if cur == jobRunningPending {
			if j.state.CAS(int32(cur), int32(jobScheduled)) {
				s.dispatchBatch(j)
				return
			}
			continue
		}
		if j.state.CAS(int32(cur), int32(jobIdle)) {
			return
		}
	}
}

// Close disconnects every job and waits for the internal group to drain, so
// no handler is still executing against state the caller is about to free -
// the Go rendering of the original's signal destructor.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = nil
	s.mu.Unlock()

	for _, j := range jobs {
		j.connected.Store(false)
	}
	s.group.Wait(0)
}

func (s *Signal[T]) disconnectJob(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, j := range s.jobs {
		if j.id == id {
			j.connected.Store(false)
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Signal[T]) jobConnected(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.id == id {
			return true
		}
	}
	return false
}

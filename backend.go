// Package xdispatch is a task-dispatch runtime: queues, timers, groups and
// signals layered over a shared worker pool, in the spirit of Grand Central
// Dispatch / libdispatch but built entirely on goroutines and channels. The
// naive backend (naive_*.go) is the only implementation shipped today; the
// Backend interface exists so a future host-integrated backend (a GUI event
// loop, say) can sit alongside it without touching the public API.
package xdispatch

import (
	"errors"
	"time"
)

// BackendTag names an implementation family. Two primitives may interoperate
// (e.g. a Group and a Queue passed to Group.Async) only if their backend
// tags are equal.
type BackendTag string

const (
	// BackendNaive is the pure-Go, pool-backed implementation shipped with
	// this module. It is the default backend used by the package-level
	// MainQueue/GlobalQueue/CreateQueue/CreateTimer/CreateGroup helpers.
	BackendNaive BackendTag = "naive"
)

var (
	// ErrBackendMismatch is returned when two primitives from different
	// backends are combined, e.g. Group.Async with a Queue of a foreign
	// backend.
	ErrBackendMismatch = errors.New("xdispatch: cannot mix two different backends")

	// ErrUninitializedHost is returned by a host-integrated backend's
	// MainQueue/Exec when invoked before the host event loop exists. The
	// naive backend never returns it.
	ErrUninitializedHost = errors.New("xdispatch: host event loop not initialized")

	// ErrNoCurrentQueue is returned by CurrentQueue when called outside a
	// dispatched operation.
	ErrNoCurrentQueue = errors.New("xdispatch: no current queue outside a dispatched operation")
)

// Backend is the capability interface a scheduler family must implement. It
// is a Go rendering of the design notes' "Qt/libdispatch backend
// polymorphism": concrete backends are tagged variants selected at
// construction, and cross-backend mixing is rejected by tag comparison
// rather than by type assertion.
type Backend interface {
	Tag() BackendTag
	MainQueue() (Queue, error)
	GlobalQueue(p Priority) Queue
	CreateQueue(label string) Queue
	CreateTimer(interval Duration, target Queue) Timer
	CreateGroup() Group
	Exec() error
}

// Duration is re-exported at package scope so callers configuring timers do
// not need to import "time" purely to spell out the type of an interval;
// it is time.Duration under the hood.
type Duration = time.Duration

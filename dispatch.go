package xdispatch

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/mlba-team/xdispatch/config"
	"github.com/mlba-team/xdispatch/metrics"
)

// defaultBackend is the process-wide naive backend, lazily constructed on
// first use and never torn down - the same "global pool singleton, leaked
// on purpose" design the teacher's package-level resources use. Tests that
// need an isolated backend construct their own with newNaiveBackend and talk
// to it directly rather than through these package-level helpers.
var (
	defaultBackendOnce sync.Once
	defaultBackendInst Backend
	newDefaultBackend  func() Backend // overridable by tests in this package

	defaultBackendStarted atomic.Bool
	runtimeConfigMu       sync.Mutex
	runtimeConfig         *config.RuntimeConfig
)

// ErrAlreadyConfigured is returned by Configure once the default backend has
// already been constructed: its pool is already running with whatever
// tunables applied at that point, and a naive pool cannot be resized live.
var ErrAlreadyConfigured = errors.New("xdispatch: default backend already initialized")

// Configure seeds the default backend's worker pool with cfg.Pool's
// tunables, in place of the pool's own built-in defaults. It must run
// before the first package-level call that touches the default backend
// (MainQueue, GlobalQueue, CreateQueue, CreateTimer, CreateGroup, Exec,
// PoolStats); calling it after that returns ErrAlreadyConfigured.
func Configure(cfg *config.RuntimeConfig) error {
	if defaultBackendStarted.Load() {
		return ErrAlreadyConfigured
	}
	runtimeConfigMu.Lock()
	defer runtimeConfigMu.Unlock()
	if defaultBackendStarted.Load() {
		return ErrAlreadyConfigured
	}
	runtimeConfig = cfg
	return nil
}

// configuredRuntimeConfig returns whatever Configure supplied, or the
// built-in defaults if Configure was never called.
func configuredRuntimeConfig() *config.RuntimeConfig {
	runtimeConfigMu.Lock()
	cfg := runtimeConfig
	runtimeConfigMu.Unlock()
	if cfg == nil {
		cfg = config.NewDefaultRuntimeConfig()
	}
	return cfg
}

func defaultBackend() Backend {
	defaultBackendOnce.Do(func() {
		defaultBackendStarted.Store(true)
		if newDefaultBackend != nil {
			defaultBackendInst = newDefaultBackend()
		}
	})
	return defaultBackendInst
}

// MainQueue returns the serial queue bound to the host's distinguished
// thread. For the naive backend this is a dedicated goroutine, started on
// first call, that drains the queue; Exec only blocks the calling goroutine
// forever.
func MainQueue() (Queue, error) {
	return defaultBackend().MainQueue()
}

// GlobalQueue returns one of the process-wide concurrent queues. It defaults
// to Default priority when called with no arguments.
func GlobalQueue(p ...Priority) Queue {
	priority := Default
	if len(p) > 0 {
		priority = p[0]
	}
	return defaultBackend().GlobalQueue(priority)
}

// CreateQueue creates a new serial queue labelled label.
func CreateQueue(label string) Queue {
	return defaultBackend().CreateQueue(label)
}

// CreateTimer creates a stopped timer with the given interval, targeting
// GlobalQueue() unless a target is supplied.
func CreateTimer(interval time.Duration, target ...Queue) Timer {
	var t Queue
	if len(target) > 0 {
		t = target[0]
	} else {
		t = GlobalQueue()
	}
	return defaultBackend().CreateTimer(interval, t)
}

// CreateGroup creates a new, empty group on the default backend.
func CreateGroup() Group {
	return defaultBackend().CreateGroup()
}

// Exec hands the calling goroutine to the default backend's main loop. For
// the naive backend the main queue drains on its own goroutine and Exec
// just blocks; it never returns.
func Exec() error {
	return defaultBackend().Exec()
}

// PoolStats reports the default backend's shared pool counters, for a
// process that embeds a debug/introspection endpoint (see
// internal/debughttp). It returns nil for a backend that exposes no
// pool-level counters.
func PoolStats() *metrics.PoolStatistics {
	if nb, ok := defaultBackend().(*naiveBackend); ok {
		return nb.poolStats()
	}
	return nil
}

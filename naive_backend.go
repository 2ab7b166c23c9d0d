package xdispatch

import (
	"sync"
	"time"

	"github.com/mlba-team/xdispatch/config"
	"github.com/mlba-team/xdispatch/internal/concurrent"
	"github.com/mlba-team/xdispatch/metrics"
)

func init() {
	newDefaultBackend = func() Backend { return newNaiveBackendWithConfig(configuredRuntimeConfig()) }
}

// toConcurrentPriority maps the public Priority enum onto the pool's own
// (dependency-free) Priority type. The two share ordinal values by
// construction; this conversion exists so internal/concurrent never needs
// to import the root package.
func toConcurrentPriority(p Priority) concurrent.Priority {
	return concurrent.Priority(p)
}

// naiveBackend is the default, pure-Go Backend: a single worker pool shared
// by every serial/global queue, group and timer it creates.
type naiveBackend struct {
	pool concurrent.Pool

	globalsOnce sync.Once
	globals     [numPriorities]*naiveGlobalQueue

	mainOnce sync.Once
	main     *naiveMainQueue
}

func newNaiveBackend() *naiveBackend {
	return newNaiveBackendWithConfig(config.NewDefaultRuntimeConfig())
}

// newNaiveBackendWithConfig builds the naive backend's shared pool from
// cfg.Pool's tunables instead of the pool's own built-in defaults.
func newNaiveBackendWithConfig(cfg *config.RuntimeConfig) *naiveBackend {
	return &naiveBackend{
		pool: concurrent.NewPool("naive", metrics.NewPoolStatistics(), concurrent.PoolOptions{
			BaseWorkers: cfg.Pool.BaseWorkers,
			IdleGrace:   time.Duration(cfg.Pool.IdleGrace),
		}),
	}
}

func (b *naiveBackend) Tag() BackendTag { return BackendNaive }

func (b *naiveBackend) MainQueue() (Queue, error) {
	b.mainOnce.Do(func() {
		b.main = newNaiveMainQueue()
	})
	return b.main, nil
}

func (b *naiveBackend) GlobalQueue(p Priority) Queue {
	b.globalsOnce.Do(func() {
		for i := range b.globals {
			b.globals[i] = newNaiveGlobalQueue(Priority(i), b.pool)
		}
	})
	if int(p) < 0 || int(p) >= numPriorities {
		p = Default
	}
	return b.globals[p]
}

func (b *naiveBackend) CreateQueue(label string) Queue {
	return newNaiveSerialQueue(label, Default, b.pool)
}

func (b *naiveBackend) CreateTimer(interval time.Duration, target Queue) Timer {
	return newNaiveTimer(b.pool, interval, target)
}

func (b *naiveBackend) CreateGroup() Group {
	return newNaiveGroup()
}

func (b *naiveBackend) Exec() error {
	mq, _ := b.MainQueue()
	return mq.(*naiveMainQueue).exec()
}

// poolStats exposes the shared pool's counters for introspection (see
// internal/debughttp); it is not part of the Backend interface since no
// other backend necessarily has a single pool to report on.
func (b *naiveBackend) poolStats() *metrics.PoolStatistics {
	return b.pool.Stats()
}

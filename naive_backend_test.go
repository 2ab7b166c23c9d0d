package xdispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exec blocks forever by design (see naive_main_queue.go's exec), so it has
// no test here: there is nothing to assert short of leaking a goroutine.

func TestNaiveBackend_Tag(t *testing.T) {
	b := newNaiveBackend()
	assert.Equal(t, BackendNaive, b.Tag())
}

func TestNaiveBackend_MainQueueIsASingleton(t *testing.T) {
	b := newNaiveBackend()
	q1, err := b.MainQueue()
	assert.NoError(t, err)
	q2, err := b.MainQueue()
	assert.NoError(t, err)
	assert.Same(t, q1, q2)
	assert.Equal(t, "main", q1.Label())
}

func TestNaiveBackend_GlobalQueueIsASingletonPerPriority(t *testing.T) {
	b := newNaiveBackend()
	high1 := b.GlobalQueue(UserInitiated)
	high2 := b.GlobalQueue(UserInitiated)
	low := b.GlobalQueue(Utility)

	assert.Same(t, high1, high2)
	assert.NotSame(t, high1, low)
	assert.Equal(t, UserInitiated, high1.Priority())
	assert.Equal(t, Utility, low.Priority())
}

func TestNaiveBackend_GlobalQueueClampsOutOfRangePriority(t *testing.T) {
	b := newNaiveBackend()
	q := b.GlobalQueue(Priority(99))
	assert.Equal(t, Default, q.Priority())
}

func TestNaiveBackend_CreateQueueIsIndependentPerCall(t *testing.T) {
	b := newNaiveBackend()
	q1 := b.CreateQueue("one")
	q2 := b.CreateQueue("two")
	assert.NotSame(t, q1, q2)
	assert.Equal(t, "one", q1.Label())
	assert.Equal(t, "two", q2.Label())
}

func TestNaiveBackend_CreateGroupAndTimerShareTheBackendTag(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("target")
	grp := b.CreateGroup()
	timer := b.CreateTimer(0, q)

	assert.Equal(t, BackendNaive, grp.Backend())
	assert.Equal(t, BackendNaive, timer.Backend())
}

func TestNaiveBackend_PoolStatsReflectsSubmittedWork(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("stats")
	done := make(chan struct{})
	q.Async(NewOperation(func() { close(done) }))
	<-done

	assert.GreaterOrEqual(t, b.poolStats().TasksConsumed.Load(), int64(1))
}

package xdispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveSerialQueue_FIFOOrdering(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("fifo")

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		q.Async(NewOperation(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}))
	}

	waitOrTimeout(t, &wg, time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestNaiveSerialQueue_NeverOverlaps(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("non-overlapping")

	var running, maxObserved int32
	var mu sync.Mutex
	observe := func() {
		mu.Lock()
		running++
		if running > maxObserved {
			maxObserved = running
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		q.Async(NewOperation(func() { observe(); wg.Done() }))
	}
	waitOrTimeout(t, &wg, time.Second)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int32(1), maxObserved)
}

func TestNaiveGlobalQueue_RunsConcurrently(t *testing.T) {
	b := newNaiveBackend()
	q := b.GlobalQueue(Default)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	start := make(chan struct{})
	var concurrent int32
	var mu sync.Mutex
	var maxObserved int32
	for i := 0; i < n; i++ {
		q.Async(NewOperation(func() {
			<-start
			mu.Lock()
			concurrent++
			if concurrent > maxObserved {
				maxObserved = concurrent
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			concurrent--
			mu.Unlock()
			wg.Done()
		}))
	}
	close(start)
	waitOrTimeout(t, &wg, 2*time.Second)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, maxObserved, int32(1))
}

func TestQueue_CurrentQueueInsideOperation(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("current")

	done := make(chan Queue, 1)
	q.Async(NewOperation(func() {
		cur, err := CurrentQueue()
		assert.NoError(t, err)
		done <- cur
	}))

	select {
	case cur := <-done:
		assert.Equal(t, q, cur)
	case <-time.After(time.Second):
		t.Fatal("operation never ran")
	}
}

func TestCurrentQueue_OutsideOperation(t *testing.T) {
	_, err := CurrentQueue()
	assert.ErrorIs(t, err, ErrNoCurrentQueue)
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for operations to complete")
	}
}

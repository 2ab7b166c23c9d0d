package xdispatch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mlba-team/xdispatch/internal/concurrent"
)

func TestNaiveTimer_TicksOnTargetQueue(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("timer-target")

	var ticks int32
	ticked := make(chan struct{}, 1)
	timer := newNaiveTimer(b.pool, 10*time.Millisecond, q)
	timer.Handler(NewOperation(func() {
		n := atomic.AddInt32(&ticks, 1)
		if n == 3 {
			select {
			case ticked <- struct{}{}:
			default:
			}
		}
	}))
	timer.Start(0)

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not tick three times in time")
	}
	timer.Stop()
}

func TestNaiveTimer_StopHaltsFurtherTicks(t *testing.T) {
	b := newNaiveBackend()
	q := b.CreateQueue("timer-stop")

	var ticks int32
	timer := newNaiveTimer(b.pool, 5*time.Millisecond, q)
	timer.Handler(NewOperation(func() { atomic.AddInt32(&ticks, 1) }))
	timer.Start(0)

	time.Sleep(30 * time.Millisecond)
	timer.Stop()
	// Stop does not wait: a tick submitted just before it was observed may
	// still run, so let that one land before taking the baseline.
	time.Sleep(20 * time.Millisecond)
	seenAtStop := atomic.LoadInt32(&ticks)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, seenAtStop, atomic.LoadInt32(&ticks))
}

func TestNaiveTimer_NotifiesPoolOfBlockedDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPool := concurrent.NewMockPool(ctrl)
	blockedDone := make(chan struct{})
	mockPool.EXPECT().NotifyThreadBlocked().Do(func() { close(blockedDone) }).Times(1)
	mockPool.EXPECT().NotifyThreadUnblocked().AnyTimes()
	mockPool.EXPECT().Execute(gomock.Any(), gomock.Any()).Do(func(task *concurrent.Task, _ concurrent.Priority) {
		go task.Invoke()
	}).Times(1)

	timer := newNaiveTimer(mockPool, time.Hour, nil)
	nt := timerImplOf(t, timer)
	nt.start(0)

	select {
	case <-blockedDone:
	case <-time.After(time.Second):
		t.Fatal("timer driver never announced itself blocked")
	}
	nt.stop()
}

func timerImplOf(t *testing.T, timer Timer) *naiveTimer {
	t.Helper()
	nt, ok := timer.impl.(*naiveTimer)
	require.True(t, ok)
	return nt
}

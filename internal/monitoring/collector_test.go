package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlba-team/xdispatch"
)

func TestNewSystemCollector_DefaultsTargetQueueWhenNil(t *testing.T) {
	c := NewSystemCollector("/", time.Second, nil)
	assert.NotNil(t, c.target)
	assert.NotNil(t, c.MemoryStatGetter)
	assert.NotNil(t, c.CPUStatGetter)
	assert.NotNil(t, c.DiskUsageStatGetter)
	assert.NotNil(t, c.NetStatGetter)
}

func TestSystemCollector_RunIsANoopAtIntervalZero(t *testing.T) {
	c := NewSystemCollector("/", 0, xdispatch.CreateQueue("monitor-noop"))
	c.Run()
	assert.Equal(t, xdispatch.Timer{}, c.timer)
	c.Stop() // must not panic against a zero-value Timer
}

func TestSystemCollector_CollectSamplesEveryGetterOnSuccess(t *testing.T) {
	c := NewSystemCollector("/", time.Second, xdispatch.CreateQueue("monitor-collect"))

	var memCalls, cpuCalls, diskCalls, netCalls int32
	c.MemoryStatGetter = func() (*mem.VirtualMemoryStat, error) {
		atomic.AddInt32(&memCalls, 1)
		return &mem.VirtualMemoryStat{UsedPercent: 42}, nil
	}
	c.CPUStatGetter = func() (*CPUStat, error) {
		atomic.AddInt32(&cpuCalls, 1)
		return &CPUStat{UsedPercent: 10}, nil
	}
	c.DiskUsageStatGetter = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		atomic.AddInt32(&diskCalls, 1)
		return &disk.UsageStat{UsedPercent: 5}, nil
	}
	c.NetStatGetter = func(ctx context.Context) ([]net.IOCountersStat, error) {
		atomic.AddInt32(&netCalls, 1)
		return []net.IOCountersStat{{BytesSent: 1, BytesRecv: 2}}, nil
	}

	c.collect()

	assert.EqualValues(t, 1, memCalls)
	assert.EqualValues(t, 1, cpuCalls)
	assert.EqualValues(t, 1, diskCalls)
	assert.EqualValues(t, 1, netCalls)
}

func TestSystemCollector_CollectToleratesEveryGetterFailing(t *testing.T) {
	c := NewSystemCollector("/", time.Second, xdispatch.CreateQueue("monitor-errors"))

	failure := errors.New("boom")
	c.MemoryStatGetter = func() (*mem.VirtualMemoryStat, error) { return nil, failure }
	c.CPUStatGetter = func() (*CPUStat, error) { return nil, failure }
	c.DiskUsageStatGetter = func(ctx context.Context, path string) (*disk.UsageStat, error) { return nil, failure }
	c.NetStatGetter = func(ctx context.Context) ([]net.IOCountersStat, error) { return nil, failure }

	require.NotPanics(t, c.collect)
}

func TestSystemCollector_RunTicksOnTargetQueue(t *testing.T) {
	q := xdispatch.CreateQueue("monitor-run")
	c := NewSystemCollector("/", 5*time.Millisecond, q)

	ticked := make(chan struct{}, 1)
	c.CPUStatGetter = func() (*CPUStat, error) {
		select {
		case ticked <- struct{}{}:
		default:
		}
		return &CPUStat{}, nil
	}
	c.MemoryStatGetter = func() (*mem.VirtualMemoryStat, error) { return &mem.VirtualMemoryStat{}, nil }
	c.DiskUsageStatGetter = func(ctx context.Context, path string) (*disk.UsageStat, error) { return &disk.UsageStat{}, nil }
	c.NetStatGetter = func(ctx context.Context) ([]net.IOCountersStat, error) { return nil, nil }

	c.Run()
	defer c.Stop()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("collector never sampled on its target queue")
	}
}

// Licensed to LinDB under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. LinDB licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package monitoring samples host resource usage on a schedule driven by
// xdispatch's own Timer primitive, so the runtime's self-observability uses
// the same scheduling primitive it hands to callers.
package monitoring

import (
	"context"
	"time"

	"github.com/lindb/common/pkg/logger"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/mlba-team/xdispatch"
	"github.com/mlba-team/xdispatch/internal/trace"
)

// CPUStat is the subset of cpu.Percent's output the collector reports.
type CPUStat struct {
	UsedPercent float64
}

// GetCPUStat samples CPU usage over a short blocking window. It is the
// default CPUStatGetter; tests substitute a stub to force error paths
// without touching the scheduler.
func GetCPUStat() (*CPUStat, error) {
	percents, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		return nil, err
	}
	if len(percents) == 0 {
		return &CPUStat{}, nil
	}
	return &CPUStat{UsedPercent: percents[0]}, nil
}

// GetNetStat samples aggregate (non per-NIC) network counters.
func GetNetStat(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, false)
}

// SystemCollector periodically samples CPU, memory, disk, and network
// counters and logs them through the trace sink. Every sampling step is a
// swappable func field, following the seam the teacher's own collector
// tests poke at, so a unit test can force each error branch without faking
// the underlying OS.
type SystemCollector struct {
	path     string
	interval time.Duration
	target   xdispatch.Queue
	timer    xdispatch.Timer
	trace    *trace.Sink

	MemoryStatGetter    func() (*mem.VirtualMemoryStat, error)
	CPUStatGetter       func() (*CPUStat, error)
	DiskUsageStatGetter func(ctx context.Context, path string) (*disk.UsageStat, error)
	NetStatGetter       func(ctx context.Context) ([]net.IOCountersStat, error)
}

// NewSystemCollector builds a collector for the filesystem at path, sampling
// every interval and running its handler on target
// (xdispatch.GlobalQueue(xdispatch.Utility) if target is nil). A zero interval disables the collector: Run becomes a
// no-op.
func NewSystemCollector(path string, interval time.Duration, target xdispatch.Queue) *SystemCollector {
	if target == nil {
		target = xdispatch.GlobalQueue(xdispatch.Utility)
	}
	return &SystemCollector{
		path:     path,
		interval: interval,
		target:   target,
		trace:    trace.New("monitoring", "system-collector"),

		MemoryStatGetter:    mem.VirtualMemory,
		CPUStatGetter:       GetCPUStat,
		DiskUsageStatGetter: disk.UsageWithContext,
		NetStatGetter:       GetNetStat,
	}
}

// Run starts the sampling timer. It returns immediately; sampling happens
// asynchronously on the collector's target queue.
func (c *SystemCollector) Run() {
	if c.interval <= 0 {
		return
	}
	c.timer = xdispatch.CreateTimer(c.interval, c.target)
	c.timer.Handler(xdispatch.NewOperation(c.collect)).Start(0)
}

// Stop halts future sampling. A sample already in flight still completes.
func (c *SystemCollector) Stop() {
	if c.timer != (xdispatch.Timer{}) {
		c.timer.Stop()
	}
}

func (c *SystemCollector) collect() {
	ctx := context.Background()

	if stat, err := c.MemoryStatGetter(); err != nil {
		c.trace.HandlerFault(err)
	} else {
		c.trace.Debugf("sampled memory", logger.Any("usedPercent", stat.UsedPercent))
	}

	if stat, err := c.CPUStatGetter(); err != nil {
		c.trace.HandlerFault(err)
	} else {
		c.trace.Debugf("sampled cpu", logger.Any("usedPercent", stat.UsedPercent))
	}

	if stat, err := c.DiskUsageStatGetter(ctx, c.path); err != nil {
		c.trace.HandlerFault(err)
	} else {
		c.trace.Debugf("sampled disk", logger.String("path", c.path), logger.Any("usedPercent", stat.UsedPercent))
	}

	if stats, err := c.NetStatGetter(ctx); err != nil {
		c.trace.HandlerFault(err)
	} else if len(stats) > 0 {
		c.trace.Debugf("sampled net", logger.Any("bytesSent", stats[0].BytesSent), logger.Any("bytesRecv", stats[0].BytesRecv))
	}
}

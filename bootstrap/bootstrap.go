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

// Package bootstrap is the composition root a process embedding xdispatch
// reaches for instead of hand-assembling the default backend and its host
// monitor: it is the one place config.RuntimeConfig's two sections actually
// get applied. It lives outside both xdispatch and internal/monitoring so
// that importing it introduces no cycle - internal/monitoring already
// imports xdispatch for Queue/Timer, so xdispatch itself cannot import
// internal/monitoring back.
package bootstrap

import (
	"time"

	"github.com/mlba-team/xdispatch"
	"github.com/mlba-team/xdispatch/config"
	"github.com/mlba-team/xdispatch/internal/monitoring"
)

// diskPath is the filesystem the host monitor reports usage for. A fixed
// root-filesystem default, same as the teacher's disk collector; process
// embedders that care about a different mount call monitoring.NewSystemCollector
// themselves instead of going through Start.
const diskPath = "/"

// Start applies cfg.Pool to the default backend's worker pool and, if
// cfg.Monitor.ReportInterval is positive, starts a host resource monitor
// sampling on the default backend's Utility global queue. It must run
// before any other package-level xdispatch call; see xdispatch.Configure.
// The returned collector's Stop should be called on shutdown; it is nil if
// the monitor is disabled.
func Start(cfg *config.RuntimeConfig) (*monitoring.SystemCollector, error) {
	if err := xdispatch.Configure(cfg); err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Monitor.ReportInterval)
	if interval <= 0 {
		return nil, nil
	}
	collector := monitoring.NewSystemCollector(diskPath, interval, xdispatch.GlobalQueue(xdispatch.Utility))
	collector.Run()
	return collector, nil
}

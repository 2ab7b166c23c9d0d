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

// Package debughttp exposes the runtime's own counters over an optional gin
// endpoint, the same "state/*" introspection idea as the teacher's
// internal/api package, scoped here to a single pool-statistics route.
package debughttp

import (
	"errors"

	"github.com/gin-gonic/gin"
	commonhttp "github.com/lindb/common/pkg/http"

	"github.com/mlba-team/xdispatch"
)

// PoolStatsPath is the route the pool counters are served on.
var PoolStatsPath = "/debug/xdispatch/pool"

// PoolStatsAPI serves the default backend's shared pool counters.
type PoolStatsAPI struct{}

// NewPoolStatsAPI creates a PoolStatsAPI instance.
func NewPoolStatsAPI() *PoolStatsAPI {
	return &PoolStatsAPI{}
}

// Register adds the pool-stats route to route.
func (api *PoolStatsAPI) Register(route gin.IRoutes) {
	route.GET(PoolStatsPath, api.GetPoolStats)
}

// GetPoolStats writes a snapshot of the default backend's pool counters.
func (api *PoolStatsAPI) GetPoolStats(c *gin.Context) {
	stats := xdispatch.PoolStats()
	if stats == nil {
		commonhttp.Error(c, errNoPoolStats)
		return
	}
	commonhttp.OK(c, stats.Snapshot())
}

var errNoPoolStats = errors.New("xdispatch: default backend exposes no pool statistics")

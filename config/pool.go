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

package config

import (
	"fmt"
	"time"

	"github.com/lindb/common/pkg/ltoml"
)

// Pool holds the tunables of the shared worker pool backing every queue of
// a naive-backend process.
type Pool struct {
	// BaseWorkers overrides the number of workers kept alive at rest. Zero
	// means "use runtime.NumCPU()".
	BaseWorkers int `env:"BASE_WORKERS" toml:"base-workers"`
	// IdleGrace is how long an over-cap worker sits idle before the reaper
	// kills it. This is the single knob for both senses of "grace period"
	// the pool has: a worker above BaseWorkers because of ordinary
	// backlog and a worker kept around only to cover a NotifyThreadBlocked
	// caller decay through the identical reaper on the identical timer,
	// so there is no separate blocked-worker-grace field to set.
	IdleGrace ltoml.Duration `env:"IDLE_GRACE" toml:"idle-grace"`
}

// TOML returns Pool's toml config fragment.
func (p *Pool) TOML() string {
	return fmt.Sprintf(`
## Config for the shared worker pool
[pool]
## number of workers kept alive at rest, 0 uses every available core
## Default: %d
## Env: XDISPATCH_POOL_BASE_WORKERS
base-workers = %d
## how long an over-cap worker idles before being reaped
## Default: %s
## Env: XDISPATCH_POOL_IDLE_GRACE
idle-grace = "%s"`,
		p.BaseWorkers, p.BaseWorkers,
		p.IdleGrace.String(), p.IdleGrace.String(),
	)
}

// NewDefaultPool returns a new default pool config.
func NewDefaultPool() *Pool {
	return &Pool{
		BaseWorkers: 0,
		IdleGrace:   ltoml.Duration(5 * time.Second),
	}
}

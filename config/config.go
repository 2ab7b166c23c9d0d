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
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v7"
)

// RuntimeConfig is the top-level configuration for a process embedding
// xdispatch: pool tunables plus the host resource monitor. Every field also
// carries an `env` tag so a deployment can override the file on top, the
// same two-layer (file then environment) precedence the rest of the stack
// uses.
type RuntimeConfig struct {
	Pool    Pool    `envPrefix:"POOL_" toml:"pool"`
	Monitor Monitor `envPrefix:"MONITOR_" toml:"monitor"`
}

// NewDefaultRuntimeConfig returns the built-in defaults, before any file or
// environment overrides are applied.
func NewDefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Pool:    *NewDefaultPool(),
		Monitor: *NewDefaultMonitor(),
	}
}

// TOML returns the full config as a toml document, section by section.
func (c *RuntimeConfig) TOML() string {
	return c.Pool.TOML() + "\n" + c.Monitor.TOML() + "\n"
}

// LoadFromFile decodes path into a RuntimeConfig seeded with defaults, then
// applies XDISPATCH_-prefixed environment overrides on top.
func LoadFromFile(path string) (*RuntimeConfig, error) {
	cfg := NewDefaultRuntimeConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("xdispatch: decode config %s: %w", path, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "XDISPATCH_"}); err != nil {
		return nil, fmt.Errorf("xdispatch: apply env overrides: %w", err)
	}
	return cfg, nil
}

// Load builds a RuntimeConfig from defaults and environment overrides only,
// for processes that ship no config file.
func Load() (*RuntimeConfig, error) {
	cfg := NewDefaultRuntimeConfig()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "XDISPATCH_"}); err != nil {
		return nil, fmt.Errorf("xdispatch: apply env overrides: %w", err)
	}
	return cfg, nil
}

// WriteDefaultFile writes the default config document to path, for
// `xdispatch init-config`-style tooling.
func WriteDefaultFile(path string) error {
	return os.WriteFile(path, []byte(NewDefaultRuntimeConfig().TOML()), 0o644)
}

package xdispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlba-team/xdispatch/config"
)

func TestConfigure_AppliesPoolTunablesToTheDefaultBackend(t *testing.T) {
	withTestBackend(t)

	cfg := config.NewDefaultRuntimeConfig()
	cfg.Pool.BaseWorkers = 3
	require.NoError(t, Configure(cfg))

	q := CreateQueue("configured")
	done := make(chan struct{})
	q.Async(NewOperation(func() { close(done) }))
	<-done

	stats := PoolStats()
	require.NotNil(t, stats)
	assert.EqualValues(t, 3, stats.WorkersAlive.Load())
}

func TestConfigure_AfterBackendStartedReturnsError(t *testing.T) {
	withTestBackend(t)

	CreateQueue("starts-the-backend")

	err := Configure(config.NewDefaultRuntimeConfig())
	assert.ErrorIs(t, err, ErrAlreadyConfigured)
}

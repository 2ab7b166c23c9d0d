package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlba-team/xdispatch/config"
)

func TestStart_ZeroMonitorIntervalStartsNoCollector(t *testing.T) {
	cfg := config.NewDefaultRuntimeConfig()
	cfg.Monitor.ReportInterval = 0

	collector, err := Start(cfg)
	require.NoError(t, err)
	assert.Nil(t, collector)
}

func TestStart_PositiveMonitorIntervalStartsACollector(t *testing.T) {
	cfg := config.NewDefaultRuntimeConfig()
	cfg.Monitor.ReportInterval = config.NewDefaultMonitor().ReportInterval

	collector, err := Start(cfg)
	require.NoError(t, err)
	require.NotNil(t, collector)
	collector.Stop()
}

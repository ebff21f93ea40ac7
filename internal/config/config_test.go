package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalens/pricelens/internal/config"
	"github.com/pharmalens/pricelens/internal/logger"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfigFile(t, ""), false)
	require.NoError(t, err)

	assert.Equal(t, "pricelens", cfg.App.Name)
	assert.Equal(t, ":8070", cfg.Server.Address)
	assert.Equal(t, logger.InfoLevel, cfg.Logger.Level)

	assert.Equal(t, 1, cfg.Engine.Governor.HeavyPoolSize)
	assert.Equal(t, 15*time.Second, cfg.Engine.Governor.LightTimeout)
	assert.Equal(t, 60*time.Second, cfg.Engine.Governor.HeavyTimeout)
	assert.Equal(t, 2, cfg.Engine.Governor.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Second, cfg.Engine.Aggregator.OverallTimeout)

	assert.Equal(t, []string{"pharmeasy", "1mg", "netmeds", "apollo"}, cfg.Sources.Enabled)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":9999"
engine:
  governor:
    heavy_pool_size: 2
    heavy_timeout: 90s
    retry:
      max_attempts: 7
      initial_delay: 250ms
      max_delay: 10s
sources:
  enabled: [netmeds, truemeds]
`)

	cfg, err := config.Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, 2, cfg.Engine.Governor.HeavyPoolSize)
	assert.Equal(t, 90*time.Second, cfg.Engine.Governor.HeavyTimeout)
	assert.Equal(t, 7, cfg.Engine.Governor.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.Governor.Retry.InitialDelay)
	assert.Equal(t, 10*time.Second, cfg.Engine.Governor.Retry.MaxDelay)
	assert.Equal(t, []string{"netmeds", "truemeds"}, cfg.Sources.Enabled)
}

func TestLoad_DebugOverridesLogLevel(t *testing.T) {
	cfg, err := config.Load(writeConfigFile(t, ""), true)
	require.NoError(t, err)

	assert.True(t, cfg.App.Debug)
	assert.Equal(t, logger.DebugLevel, cfg.Logger.Level)
}

func TestLoad_UnknownSourceFails(t *testing.T) {
	path := writeConfigFile(t, `
sources:
  enabled: [pharmeasy, walgreens]
`)

	_, err := config.Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "walgreens")
}

func TestLoad_InvalidGovernorFails(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  governor:
    heavy_pool_size: -1
`)

	_, err := config.Load(path, false)
	require.Error(t, err)
}

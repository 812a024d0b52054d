package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanobs/ctd-split/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OUT_DIR", "STATION_VAR", "FILE_PREFIX", "METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutDir)
	assert.Equal(t, "STATION", cfg.StationVar)
	assert.Equal(t, "", cfg.FilePrefix)
	assert.Equal(t, "", cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUT_DIR", "/data/out")
	t.Setenv("STATION_VAR", "CAST")
	t.Setenv("FILE_PREFIX", "nansen")
	t.Setenv("METRICS_ADDR", ":9402")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/out", cfg.OutDir)
	assert.Equal(t, "CAST", cfg.StationVar)
	assert.Equal(t, "nansen", cfg.FilePrefix)
	assert.Equal(t, ":9402", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

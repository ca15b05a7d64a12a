package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/sponsortrack/internal/config"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "DATABASE_URL", "DB_NAME", "DB_CONNECT_TIMEOUT",
		"DB_RETRY_INTERVAL", "DB_CHECK_INTERVAL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"DATA_DIR", "LOG_LEVEL", "METRICS_ENABLED",
	} {
		if value, ok := os.LookupEnv(key); ok {
			// t.Setenv restores the original value after the test
			t.Setenv(key, value)
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "sponsortrack", cfg.Database.Name)
	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.RetryInterval)
	assert.Equal(t, 15*time.Second, cfg.Database.CheckInterval)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, int32(0), cfg.Database.MinConns)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)

	driver, err := cfg.Database.Driver()
	require.NoError(t, err)
	assert.Equal(t, config.DriverNone, driver)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DB_CONNECT_TIMEOUT", "500ms")
	t.Setenv("DATA_DIR", "/var/lib/sponsortrack")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.ConnectTimeout)
	assert.Equal(t, "/var/lib/sponsortrack", cfg.Storage.DataDir)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "DB_RETRY_INTERVAL", val: "soon"},
		{name: "bad pool size", key: "DB_MAX_CONNS", val: "many"},
		{name: "unsupported scheme", key: "DATABASE_URL", val: "mysql://localhost/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_Driver(t *testing.T) {
	tests := []struct {
		url  string
		want config.Driver
	}{
		{url: "", want: config.DriverNone},
		{url: "mongodb://user:pass@db:27017/?authSource=admin", want: config.DriverMongo},
		{url: "mongodb+srv://cluster.example.net", want: config.DriverMongo},
		{url: "postgres://user:pass@db:5432/sponsors", want: config.DriverPostgres},
		{url: "postgresql://db/sponsors?sslmode=disable", want: config.DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, err := config.DatabaseConfig{URL: tt.url}.Driver()
			require.NoError(t, err)
			assert.Equal(t, tt.want, driver)
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, config.LogConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, config.LogConfig{Level: "ERROR"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, config.LogConfig{Level: "verbose"}.SlogLevel())
}

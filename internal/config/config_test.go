package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termfx/gold/internal/oracle"
)

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"GOLD_LOG_LEVEL",
		"GOLD_DB",
		"GOLD_LIBSQL_AUTH_TOKEN",
		"GOLD_ORACLE_CACHE",
		"GOLD_DB_RETENTION_RUNS",
		"GOLD_FSYNC",
		"GOLD_BACKUP",
	} {
		t.Setenv(envVar, "")
	}
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearConfigEnvVars(t)

	cfg := LoadConfig()

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Empty(t, cfg.DB)
	assert.Empty(t, cfg.LibSQLAuthToken)
	assert.Equal(t, oracle.DefaultCacheSize, cfg.OracleCacheSize)
	assert.Equal(t, 20, cfg.RetentionRuns)
	assert.False(t, cfg.Fsync)
	assert.False(t, cfg.Backup)
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("GOLD_LOG_LEVEL", "debug")
	t.Setenv("GOLD_DB", "libsql://gold.example.turso.io")
	t.Setenv("GOLD_LIBSQL_AUTH_TOKEN", "token-123")
	t.Setenv("GOLD_ORACLE_CACHE", "64")
	t.Setenv("GOLD_DB_RETENTION_RUNS", "0")
	t.Setenv("GOLD_FSYNC", "true")
	t.Setenv("GOLD_BACKUP", "1")

	cfg := LoadConfig()

	assert.True(t, cfg.Fsync)
	assert.True(t, cfg.Backup)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "libsql://gold.example.turso.io", cfg.DB)
	assert.Equal(t, "token-123", cfg.LibSQLAuthToken)
	assert.Equal(t, 64, cfg.OracleCacheSize)
	assert.Equal(t, 0, cfg.RetentionRuns)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("GOLD_LOG_LEVEL", "chatty")
	t.Setenv("GOLD_ORACLE_CACHE", "-3")
	t.Setenv("GOLD_DB_RETENTION_RUNS", "abc")
	t.Setenv("GOLD_FSYNC", "maybe")

	cfg := LoadConfig()

	assert.False(t, cfg.Fsync)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, oracle.DefaultCacheSize, cfg.OracleCacheSize)
	assert.Equal(t, 20, cfg.RetentionRuns)
}

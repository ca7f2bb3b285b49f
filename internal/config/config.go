package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/termfx/gold/internal/oracle"
)

// Config holds the settings read from the environment.
type Config struct {
	LogLevel        slog.Level
	DB              string // run history DSN, empty disables recording
	LibSQLAuthToken string
	OracleCacheSize int
	RetentionRuns   int // runs kept per module root, 0 keeps all
	Fsync           bool
	Backup          bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	cfg := &Config{
		LogLevel:        slog.LevelWarn,
		DB:              os.Getenv("GOLD_DB"),
		LibSQLAuthToken: os.Getenv("GOLD_LIBSQL_AUTH_TOKEN"),
		OracleCacheSize: oracle.DefaultCacheSize,
		RetentionRuns:   20,
	}

	if levelStr := os.Getenv("GOLD_LOG_LEVEL"); levelStr != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToUpper(levelStr))); err == nil {
			cfg.LogLevel = level
		}
	}

	if cacheStr := os.Getenv("GOLD_ORACLE_CACHE"); cacheStr != "" {
		if size, err := strconv.Atoi(cacheStr); err == nil && size > 0 {
			cfg.OracleCacheSize = size
		}
	}

	if retentionRunsStr := os.Getenv("GOLD_DB_RETENTION_RUNS"); retentionRunsStr != "" {
		if retentionRuns, err := strconv.Atoi(retentionRunsStr); err == nil && retentionRuns >= 0 {
			cfg.RetentionRuns = retentionRuns
		}
	}

	if fsyncStr := os.Getenv("GOLD_FSYNC"); fsyncStr != "" {
		if fsync, err := strconv.ParseBool(fsyncStr); err == nil {
			cfg.Fsync = fsync
		}
	}

	if backupStr := os.Getenv("GOLD_BACKUP"); backupStr != "" {
		if backup, err := strconv.ParseBool(backupStr); err == nil {
			cfg.Backup = backup
		}
	}

	return cfg
}

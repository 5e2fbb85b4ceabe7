package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SNAPTAIL_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SNAPTAIL_MAX_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxSize = n
		}
	}
	if v := os.Getenv("SNAPTAIL_WRITE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WriteIntervalMs = n
		}
	}
	if v := os.Getenv("SNAPTAIL_IMMEDIATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Immediate = b
		}
	}
	if v := os.Getenv("SNAPTAIL_ATOMIC_WRITES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AtomicWrites = b
		}
	}
	if v := os.Getenv("SNAPTAIL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SNAPTAIL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

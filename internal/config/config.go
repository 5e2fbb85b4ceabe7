package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the core configuration loaded from file/env/flags. It is
// immutable for the lifetime of one run; the core assumes it has been
// validated before startup.
type Config struct {
	// MaxSize is the snapshot byte budget. Must be positive.
	MaxSize int64 `json:"maxSize" yaml:"maxSize"`
	// WriteIntervalMs is the debounce window in milliseconds. Zero selects
	// immediate mode.
	WriteIntervalMs int  `json:"writeIntervalMs" yaml:"writeIntervalMs"`
	Immediate       bool `json:"immediate" yaml:"immediate"`
	AtomicWrites    bool `json:"atomicWrites" yaml:"atomicWrites"`

	LogLevel  string `json:"logLevel" yaml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		MaxSize:         10000,
		WriteIntervalMs: 1000,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Interval returns the debounce window as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.WriteIntervalMs) * time.Millisecond
}

// Validate rejects configurations the core cannot run with.
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("config: maxSize must be > 0, got %d", c.MaxSize)
	}
	if c.WriteIntervalMs < 0 {
		return fmt.Errorf("config: writeIntervalMs must be >= 0, got %d", c.WriteIntervalMs)
	}
	return nil
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

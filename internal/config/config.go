// Package config loads the runtime tunables for the state synchronization
// service. Defaults are overridden first by an optional YAML scenario file
// and then by STATECORE_* environment variables, so the environment always
// wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAddr is the default TCP address the diagnostics server listens on.
	DefaultAddr = ":43310"
	// DefaultSimRateHz is the fixed-timestep frequency of the physics loop.
	DefaultSimRateHz = 120.0
	// DefaultRingCapacity bounds the retained snapshot history.
	DefaultRingCapacity = 600
	// DefaultHistoryLimit bounds the undo stack for settings mutations.
	DefaultHistoryLimit = 64
	// DefaultBroadcastInterval is the cadence at which the latest snapshot
	// is polled and fanned out to websocket consumers.
	DefaultBroadcastInterval = 33 * time.Millisecond
	// DefaultDumpDir is where diagnostics bundles are written.
	DefaultDumpDir = "dumps"

	// DefaultLogLevel controls verbosity for service logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "statecore.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 100
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 10
	// DefaultLogMaxAgeDays controls how long rotated log files are kept.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true
)

// Config captures all runtime tunables for the service.
type Config struct {
	Address           string
	SimRateHz         float64
	RingCapacity      int
	HistoryLimit      int
	BroadcastInterval time.Duration
	DumpDir           string
	Logging           LoggingConfig
}

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Scenario mirrors the optional YAML file referenced by STATECORE_SCENARIO.
// Zero values leave the corresponding tunable untouched.
type Scenario struct {
	SimRateHz         float64 `yaml:"sim_rate_hz"`
	RingCapacity      int     `yaml:"ring_capacity"`
	HistoryLimit      int     `yaml:"history_limit"`
	BroadcastInterval string  `yaml:"broadcast_interval"`
}

// Load reads the configuration, applying defaults, then the scenario file,
// then environment overrides, and returns descriptive errors for invalid
// values.
func Load() (*Config, error) {
	cfg := &Config{
		Address:           getString("STATECORE_ADDR", DefaultAddr),
		SimRateHz:         DefaultSimRateHz,
		RingCapacity:      DefaultRingCapacity,
		HistoryLimit:      DefaultHistoryLimit,
		BroadcastInterval: DefaultBroadcastInterval,
		DumpDir:           getString("STATECORE_DUMP_DIR", DefaultDumpDir),
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("STATECORE_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("STATECORE_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
	}

	var problems []string

	//1.- The scenario file sits between defaults and environment overrides.
	if path := strings.TrimSpace(os.Getenv("STATECORE_SCENARIO")); path != "" {
		if err := applyScenario(cfg, path); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_SIM_RATE_HZ")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_SIM_RATE_HZ must be a positive number, got %q", raw))
		} else {
			cfg.SimRateHz = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_RING_CAPACITY")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_RING_CAPACITY must be a positive integer, got %q", raw))
		} else {
			cfg.RingCapacity = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_HISTORY_LIMIT")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_HISTORY_LIMIT must be a positive integer, got %q", raw))
		} else {
			cfg.HistoryLimit = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_BROADCAST_INTERVAL")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_BROADCAST_INTERVAL must be a positive duration, got %q", raw))
		} else {
			cfg.BroadcastInterval = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("STATECORE_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STATECORE_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("STATECORE_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func applyScenario(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("STATECORE_SCENARIO: %v", err)
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return fmt.Errorf("STATECORE_SCENARIO: parse %s: %v", path, err)
	}
	if scenario.SimRateHz < 0 || scenario.RingCapacity < 0 || scenario.HistoryLimit < 0 {
		return fmt.Errorf("STATECORE_SCENARIO: %s must not contain negative tunables", path)
	}
	if scenario.SimRateHz > 0 {
		cfg.SimRateHz = scenario.SimRateHz
	}
	if scenario.RingCapacity > 0 {
		cfg.RingCapacity = scenario.RingCapacity
	}
	if scenario.HistoryLimit > 0 {
		cfg.HistoryLimit = scenario.HistoryLimit
	}
	if raw := strings.TrimSpace(scenario.BroadcastInterval); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			return fmt.Errorf("STATECORE_SCENARIO: broadcast_interval must be a positive duration, got %q", raw)
		}
		cfg.BroadcastInterval = duration
	}
	return nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

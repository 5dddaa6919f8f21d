package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STATECORE_ADDR",
		"STATECORE_SIM_RATE_HZ",
		"STATECORE_RING_CAPACITY",
		"STATECORE_HISTORY_LIMIT",
		"STATECORE_BROADCAST_INTERVAL",
		"STATECORE_DUMP_DIR",
		"STATECORE_SCENARIO",
		"STATECORE_LOG_LEVEL",
		"STATECORE_LOG_PATH",
		"STATECORE_LOG_MAX_SIZE_MB",
		"STATECORE_LOG_MAX_BACKUPS",
		"STATECORE_LOG_MAX_AGE_DAYS",
		"STATECORE_LOG_COMPRESS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Address != DefaultAddr {
		t.Fatalf("expected default address %q, got %q", DefaultAddr, cfg.Address)
	}
	if cfg.SimRateHz != DefaultSimRateHz {
		t.Fatalf("expected default sim rate %v, got %v", DefaultSimRateHz, cfg.SimRateHz)
	}
	if cfg.RingCapacity != DefaultRingCapacity || cfg.HistoryLimit != DefaultHistoryLimit {
		t.Fatalf("unexpected capacities: %+v", cfg)
	}
	if cfg.BroadcastInterval != DefaultBroadcastInterval {
		t.Fatalf("expected default broadcast interval %v, got %v", DefaultBroadcastInterval, cfg.BroadcastInterval)
	}
	if cfg.Logging.Level != DefaultLogLevel || !cfg.Logging.Compress {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATECORE_SIM_RATE_HZ", "240")
	t.Setenv("STATECORE_RING_CAPACITY", "32")
	t.Setenv("STATECORE_HISTORY_LIMIT", "8")
	t.Setenv("STATECORE_BROADCAST_INTERVAL", "16ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	if cfg.SimRateHz != 240 || cfg.RingCapacity != 32 || cfg.HistoryLimit != 8 {
		t.Fatalf("environment overrides ignored: %+v", cfg)
	}
	if cfg.BroadcastInterval != 16*time.Millisecond {
		t.Fatalf("expected 16ms broadcast interval, got %v", cfg.BroadcastInterval)
	}
}

func TestLoadCollectsProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATECORE_SIM_RATE_HZ", "zero")
	t.Setenv("STATECORE_RING_CAPACITY", "-4")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected invalid configuration error")
	}
	if !strings.Contains(err.Error(), "STATECORE_SIM_RATE_HZ") || !strings.Contains(err.Error(), "STATECORE_RING_CAPACITY") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestLoadScenarioFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	scenario := "sim_rate_hz: 90\nring_capacity: 120\nhistory_limit: 16\nbroadcast_interval: 25ms\n"
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	t.Setenv("STATECORE_SCENARIO", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if cfg.SimRateHz != 90 || cfg.RingCapacity != 120 || cfg.HistoryLimit != 16 {
		t.Fatalf("scenario values ignored: %+v", cfg)
	}
	if cfg.BroadcastInterval != 25*time.Millisecond {
		t.Fatalf("expected scenario broadcast interval 25ms, got %v", cfg.BroadcastInterval)
	}
}

func TestEnvironmentWinsOverScenario(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("sim_rate_hz: 90\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	t.Setenv("STATECORE_SCENARIO", path)
	t.Setenv("STATECORE_SIM_RATE_HZ", "300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SimRateHz != 300 {
		t.Fatalf("expected environment to win with 300 Hz, got %v", cfg.SimRateHz)
	}
}

func TestLoadRejectsUnreadableScenario(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATECORE_SCENARIO", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing scenario file")
	}
}

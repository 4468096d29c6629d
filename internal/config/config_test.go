package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultStation != "WPOW1" {
		t.Errorf("DefaultStation = %q", cfg.DefaultStation)
	}
	if cfg.DefaultTideStation != "9447130" {
		t.Errorf("DefaultTideStation = %q", cfg.DefaultTideStation)
	}
	if cfg.ObservationsTTL != 5*time.Minute {
		t.Errorf("ObservationsTTL = %v", cfg.ObservationsTTL)
	}
	if cfg.ForecastTTL != 30*time.Minute {
		t.Errorf("ForecastTTL = %v", cfg.ForecastTTL)
	}
	if cfg.PrewarmInterval != 0 {
		t.Errorf("PrewarmInterval = %v, want disabled by default", cfg.PrewarmInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_STATION", "KSEA")
	t.Setenv("OBSERVATIONS_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultStation != "KSEA" {
		t.Errorf("DefaultStation = %q", cfg.DefaultStation)
	}
	if cfg.ObservationsTTL != 90*time.Second {
		t.Errorf("ObservationsTTL = %v", cfg.ObservationsTTL)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("FORECAST_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

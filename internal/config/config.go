package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// Fallback station identifiers used when a request omits (or supplies an
	// invalid) station parameter.
	DefaultStation     string // NDBC/NWS station, e.g. WPOW1
	DefaultTideStation string // CO-OPS tide station, e.g. 9447130

	// Timeout applied to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	// Cache TTLs by data volatility: realtime observations refresh every few
	// minutes, forecasts and predictions are pre-computed upstream.
	ObservationsTTL time.Duration
	ForecastTTL     time.Duration

	// CacheSweepInterval controls the background eviction pass.
	CacheSweepInterval time.Duration

	// PrewarmInterval drives the default-station cache refresh job; 0 disables it.
	PrewarmInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:               getenvDefault("PORT", "8080"),
		DefaultStation:     getenvDefault("DEFAULT_STATION", "WPOW1"),
		DefaultTideStation: getenvDefault("DEFAULT_TIDE_STATION", "9447130"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ObservationsTTL, err = getenvDuration("OBSERVATIONS_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ForecastTTL, err = getenvDuration("FORECAST_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheSweepInterval, err = getenvDuration("CACHE_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PrewarmInterval, err = getenvDuration("PREWARM_INTERVAL", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package marine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/westpointwind/marine-api/internal/cache"
	"github.com/westpointwind/marine-api/internal/station"
)

// Service orchestrates the concurrent NOAA fetches behind each endpoint and
// fronts them with the shared TTL cache.
type Service struct {
	cache     *cache.Cache
	obs       ObservationClient
	tides     TideClient
	forecasts ForecastClient

	observationsTTL time.Duration
	forecastTTL     time.Duration

	defaultStation     string
	defaultTideStation string
}

// ServiceConfig bundles Service dependencies and tuning.
type ServiceConfig struct {
	Cache     *cache.Cache
	Obs       ObservationClient
	Tides     TideClient
	Forecasts ForecastClient

	ObservationsTTL time.Duration
	ForecastTTL     time.Duration

	DefaultStation     string
	DefaultTideStation string
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cache:              cfg.Cache,
		obs:                cfg.Obs,
		tides:              cfg.Tides,
		forecasts:          cfg.Forecasts,
		observationsTTL:    cfg.ObservationsTTL,
		forecastTTL:        cfg.ForecastTTL,
		defaultStation:     cfg.DefaultStation,
		defaultTideStation: cfg.DefaultTideStation,
	}
}

// ObservationsTTL returns the TTL applied to merged observations, for use in
// HTTP caching directives.
func (s *Service) ObservationsTTL() time.Duration { return s.observationsTTL }

// ForecastTTL returns the TTL applied to forecast bundles.
func (s *Service) ForecastTTL() time.Duration { return s.forecastTTL }

// DefaultStation returns the configured fallback weather station.
func (s *Service) DefaultStation() string { return s.defaultStation }

// DefaultTideStation returns the configured fallback tide station.
func (s *Service) DefaultTideStation() string { return s.defaultTideStation }

// GetObservations fetches buoy weather, current tide level, and tide
// predictions concurrently and merges whatever succeeded into one Observation.
//
// The three fetches settle independently; the failure of one never cancels the
// others. The externally visible contract is binary: if any fetch failed, the
// collected errors are returned, nothing is cached, and the merged record is
// withheld. Only a fully successful merge is cached and returned.
func (s *Service) GetObservations(ctx context.Context, stationID, tideStationID string) (Observation, bool, []error) {
	stationID = station.Sanitize(stationID, s.defaultStation)
	tideStationID = station.Sanitize(tideStationID, s.defaultTideStation)

	key := cache.Key("observations", map[string]string{
		"station":     stationID,
		"tideStation": tideStationID,
	})

	if cached, ok := s.cache.Get(key); ok {
		return cached.(Observation), true, nil
	}

	var (
		wg sync.WaitGroup

		weather    Observation
		weatherErr error

		currentTide    *string
		currentTideErr error

		predictions    TidePredictions
		predictionsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		weather, weatherErr = s.obs.GetObservations(ctx, stationID)
	}()
	go func() {
		defer wg.Done()
		currentTide, currentTideErr = s.tides.GetCurrentTide(ctx, tideStationID)
	}()
	go func() {
		defer wg.Done()
		predictions, predictionsErr = s.tides.GetTidePredictions(ctx, tideStationID)
	}()
	wg.Wait()

	var errs []error
	merged := Observation{}

	if weatherErr == nil {
		merged = weather
	} else {
		log.Printf("observations: weather fetch failed for %s: %v", stationID, weatherErr)
		errs = append(errs, weatherErr)
	}

	if currentTideErr == nil {
		merged.CurrentTide = currentTide
	} else {
		log.Printf("observations: current tide fetch failed for %s: %v", tideStationID, currentTideErr)
		errs = append(errs, currentTideErr)
	}

	if predictionsErr == nil {
		merged.NextTide = predictions.Next
		merged.NextTideAfter = predictions.After
	} else {
		log.Printf("observations: tide predictions fetch failed for %s: %v", tideStationID, predictionsErr)
		errs = append(errs, predictionsErr)
	}

	if len(errs) > 0 {
		return Observation{}, false, errs
	}

	s.cache.Set(key, merged, s.observationsTTL)
	return merged, false, nil
}

// GetForecast resolves the hourly forecast for a station through the cache.
func (s *Service) GetForecast(ctx context.Context, stationID string) (ForecastBundle, bool, error) {
	stationID = station.Sanitize(stationID, s.defaultStation)

	key := cache.Key("forecast", map[string]string{"station": stationID})

	if cached, ok := s.cache.Get(key); ok {
		return cached.(ForecastBundle), true, nil
	}

	bundle, err := s.forecasts.GetHourlyForecast(ctx, stationID)
	if err != nil {
		log.Printf("forecast: fetch failed for %s: %v", stationID, err)
		return ForecastBundle{}, false, err
	}

	s.cache.Set(key, bundle, s.forecastTTL)
	return bundle, false, nil
}

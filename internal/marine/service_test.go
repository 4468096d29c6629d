package marine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/westpointwind/marine-api/internal/cache"
)

type stubObsClient struct {
	calls int
	obs   Observation
	err   error
}

func (s *stubObsClient) GetObservations(ctx context.Context, stationID string) (Observation, error) {
	s.calls++
	return s.obs, s.err
}

type stubTideClient struct {
	currentCalls int
	current      *string
	currentErr   error

	predictionCalls int
	predictions     TidePredictions
	predictionsErr  error
}

func (s *stubTideClient) GetCurrentTide(ctx context.Context, tideStationID string) (*string, error) {
	s.currentCalls++
	return s.current, s.currentErr
}

func (s *stubTideClient) GetTidePredictions(ctx context.Context, tideStationID string) (TidePredictions, error) {
	s.predictionCalls++
	return s.predictions, s.predictionsErr
}

type stubForecastClient struct {
	calls  int
	bundle ForecastBundle
	err    error
}

func (s *stubForecastClient) GetHourlyForecast(ctx context.Context, stationID string) (ForecastBundle, error) {
	s.calls++
	return s.bundle, s.err
}

func newTestService(obs *stubObsClient, tides *stubTideClient, forecasts *stubForecastClient) (*Service, *cache.Cache) {
	c := cache.New(0)
	svc := NewService(ServiceConfig{
		Cache:              c,
		Obs:                obs,
		Tides:              tides,
		Forecasts:          forecasts,
		ObservationsTTL:    5 * time.Minute,
		ForecastTTL:        30 * time.Minute,
		DefaultStation:     "WPOW1",
		DefaultTideStation: "9447130",
	})
	return svc, c
}

func TestGetObservationsMergesAllSources(t *testing.T) {
	obs := &stubObsClient{obs: Observation{
		StationID:     "WPOW1",
		WindSpeed:     Float64Ptr(11.18),
		WindDirection: Float64Ptr(180),
		WindGust:      Float64Ptr(15.66),
		AirTemp:       Float64Ptr(50.9),
	}}
	tides := &stubTideClient{
		current:     StringPtr("8.5"),
		predictions: TidePredictions{Next: "2/10/2026 3:45:00 PM 11.2 ft H", After: "2/11/2026 4:10:00 AM -0.3 ft L"},
	}
	svc, c := newTestService(obs, tides, &stubForecastClient{})
	defer c.Stop()

	got, hit, errs := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if hit {
		t.Fatal("first call must be a cache miss")
	}
	if got.StationID != "WPOW1" {
		t.Errorf("stationId = %q", got.StationID)
	}
	if got.CurrentTide == nil || *got.CurrentTide != "8.5" {
		t.Errorf("currentTide = %v, want 8.5", got.CurrentTide)
	}
	if got.NextTide == "" || got.NextTideAfter == "" {
		t.Error("expected both tide predictions to be populated")
	}
	if got.NextTideAfter == "Unavailable" {
		t.Error("nextTideAfter should be a real prediction here")
	}
	if got.WindSpeed == nil || *got.WindSpeed != 11.18 {
		t.Errorf("windSpeed = %v", got.WindSpeed)
	}
}

func TestGetObservationsAllOrNothing(t *testing.T) {
	// Exactly one of the three fetches fails; the whole call must fail and
	// nothing may be cached.
	obs := &stubObsClient{obs: Observation{StationID: "WPOW1"}}
	tides := &stubTideClient{
		current:        StringPtr("8.5"),
		predictionsErr: errors.New("tide service down"),
	}
	svc, c := newTestService(obs, tides, &stubForecastClient{})
	defer c.Stop()

	got, hit, errs := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if hit {
		t.Fatal("failed call cannot be a cache hit")
	}
	if got.StationID != "" || got.CurrentTide != nil {
		t.Errorf("partial merge leaked to caller: %+v", got)
	}
	if c.Len() != 0 {
		t.Fatalf("failed aggregation must not populate the cache, len = %d", c.Len())
	}

	// A second call retries all three fetches.
	svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if obs.calls != 2 || tides.predictionCalls != 2 {
		t.Errorf("expected retried fetches, obs=%d predictions=%d", obs.calls, tides.predictionCalls)
	}
}

func TestGetObservationsErrorsArePreserved(t *testing.T) {
	weatherErr := errors.New("ndbc unreachable")
	tideErr := errors.New("coops 503")
	obs := &stubObsClient{err: weatherErr}
	tides := &stubTideClient{currentErr: tideErr, predictions: TidePredictions{Next: "x", After: "y"}}
	svc, c := newTestService(obs, tides, &stubForecastClient{})
	defer c.Stop()

	_, _, errs := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	// The caller can still tell which upstream is unhealthy.
	found := map[string]bool{}
	for _, err := range errs {
		found[err.Error()] = true
	}
	if !found[weatherErr.Error()] || !found[tideErr.Error()] {
		t.Errorf("individual fetch errors were not preserved: %v", errs)
	}
}

func TestGetObservationsFullSuccessIsCached(t *testing.T) {
	obs := &stubObsClient{obs: Observation{StationID: "WPOW1", WindSpeed: Float64Ptr(9)}}
	tides := &stubTideClient{current: StringPtr("4.2"), predictions: TidePredictions{Next: "n", After: "a"}}
	svc, c := newTestService(obs, tides, &stubForecastClient{})
	defer c.Stop()

	first, hit, errs := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if len(errs) != 0 || hit {
		t.Fatalf("first call: hit=%v errs=%v", hit, errs)
	}

	second, hit, errs := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if len(errs) != 0 {
		t.Fatalf("second call errors: %v", errs)
	}
	if !hit {
		t.Fatal("second call must be a cache hit")
	}
	if obs.calls != 1 || tides.currentCalls != 1 || tides.predictionCalls != 1 {
		t.Errorf("cache hit must make zero upstream calls: obs=%d current=%d predictions=%d",
			obs.calls, tides.currentCalls, tides.predictionCalls)
	}
	if *second.WindSpeed != *first.WindSpeed || second.NextTide != first.NextTide {
		t.Error("cached result differs from the original merge")
	}
}

func TestGetObservationsSanitizesStationIDs(t *testing.T) {
	obs := &stubObsClient{obs: Observation{StationID: "WPOW1"}}
	tides := &stubTideClient{current: StringPtr("1"), predictions: TidePredictions{Next: "n", After: "a"}}
	svc, c := newTestService(obs, tides, &stubForecastClient{})
	defer c.Stop()

	// Decorated input sanitizes down to the plain identifiers, so this caches
	// under the same key as a clean request...
	if _, _, errs := svc.GetObservations(context.Background(), "W POW1?", "::9447130::"); len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	// ...and an explicit default-station request hits that entry.
	_, hit, _ := svc.GetObservations(context.Background(), "WPOW1", "9447130")
	if !hit {
		t.Fatal("sanitized input should share the clean request's cache entry")
	}
}

func TestGetForecastCaching(t *testing.T) {
	fc := &stubForecastClient{bundle: ForecastBundle{
		StationID: "WPOW1",
		Latitude:  47.66,
		Longitude: -122.44,
		Periods:   []ForecastPeriod{{WindSpeed: "10 mph", Temperature: 55}},
	}}
	svc, c := newTestService(&stubObsClient{}, &stubTideClient{}, fc)
	defer c.Stop()

	_, hit, err := svc.GetForecast(context.Background(), "WPOW1")
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	bundle, hit, err := svc.GetForecast(context.Background(), "WPOW1")
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if fc.calls != 1 {
		t.Errorf("forecast fetched %d times, want 1", fc.calls)
	}
	if bundle.Latitude != 47.66 || len(bundle.Periods) != 1 {
		t.Errorf("unexpected cached bundle: %+v", bundle)
	}
}

func TestGetForecastErrorNotCached(t *testing.T) {
	fc := &stubForecastClient{err: errors.New("nws down")}
	svc, c := newTestService(&stubObsClient{}, &stubTideClient{}, fc)
	defer c.Stop()

	if _, _, err := svc.GetForecast(context.Background(), "WPOW1"); err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 0 {
		t.Fatal("failed forecast must not be cached")
	}
	svc.GetForecast(context.Background(), "WPOW1")
	if fc.calls != 2 {
		t.Errorf("expected a retry on the second call, calls = %d", fc.calls)
	}
}

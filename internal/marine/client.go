package marine

import "context"

// ObservationClient fetches realtime buoy/coastal-station observations.
type ObservationClient interface {
	GetObservations(ctx context.Context, stationID string) (Observation, error)
}

// TideClient fetches current water level and tide predictions.
type TideClient interface {
	// GetCurrentTide returns the most recent water-level reading in feet, or
	// nil when the station reported an empty series (not an error by itself).
	GetCurrentTide(ctx context.Context, tideStationID string) (*string, error)

	// GetTidePredictions returns the next two predicted hi/lo extremes in the
	// today-through-tomorrow window.
	GetTidePredictions(ctx context.Context, tideStationID string) (TidePredictions, error)
}

// ForecastClient resolves a station to its hourly gridded forecast.
type ForecastClient interface {
	GetHourlyForecast(ctx context.Context, stationID string) (ForecastBundle, error)
}

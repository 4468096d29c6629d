package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"github.com/westpointwind/marine-api/internal/marine"
)

// maxForecastPeriods caps the hourly forecast at one day.
const maxForecastPeriods = 24

// NWSClient resolves a station to its hourly gridded forecast through the NWS
// API's station -> coordinates -> grid resource indirection chain.
type NWSClient struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	backoff    backoffConfig
}

// NewNWSClient creates an NWS client sharing the given HTTP client.
func NewNWSClient(client *http.Client) *NWSClient {
	return &NWSClient{
		baseURL:    "https://api.weather.gov",
		httpClient: client,
		circuit:    newBreaker("nws"),
		backoff:    defaultBackoff(),
	}
}

type stationResponse struct {
	Geometry struct {
		Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
}

type pointsResponse struct {
	Properties struct {
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []marine.ForecastPeriod `json:"periods"`
	} `json:"properties"`
}

// GetHourlyForecast runs the three-hop chain: station metadata for
// coordinates, the points endpoint for the hourly forecast URL, and the grid
// resource itself. Periods are passed through in upstream units, truncated to
// the first 24.
func (c *NWSClient) GetHourlyForecast(ctx context.Context, stationID string) (marine.ForecastBundle, error) {
	lat, lon, err := c.getStationCoordinates(ctx, stationID)
	if err != nil {
		return marine.ForecastBundle{}, fmt.Errorf("station lookup failed: %w", err)
	}

	forecastURL, err := c.getForecastURL(ctx, lat, lon)
	if err != nil {
		return marine.ForecastBundle{}, fmt.Errorf("grid lookup failed: %w", err)
	}

	periods, err := c.getHourlyPeriods(ctx, forecastURL)
	if err != nil {
		return marine.ForecastBundle{}, fmt.Errorf("forecast fetch failed: %w", err)
	}

	return marine.ForecastBundle{
		StationID: stationID,
		Latitude:  lat,
		Longitude: lon,
		Periods:   periods,
	}, nil
}

func (c *NWSClient) getStationCoordinates(ctx context.Context, stationID string) (lat, lon float64, err error) {
	var payload stationResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/stations/%s", c.baseURL, stationID), &payload); err != nil {
		return 0, 0, err
	}
	// GeoJSON order is [lon, lat].
	return payload.Geometry.Coordinates[1], payload.Geometry.Coordinates[0], nil
}

func (c *NWSClient) getForecastURL(ctx context.Context, lat, lon float64) (string, error) {
	var payload pointsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon), &payload); err != nil {
		return "", err
	}
	if payload.Properties.ForecastHourly == "" {
		return "", fmt.Errorf("points response carried no hourly forecast url")
	}
	return payload.Properties.ForecastHourly, nil
}

func (c *NWSClient) getHourlyPeriods(ctx context.Context, forecastURL string) ([]marine.ForecastPeriod, error) {
	var payload forecastResponse
	if err := c.getJSON(ctx, forecastURL, &payload); err != nil {
		return nil, err
	}

	periods := payload.Properties.Periods
	if len(periods) > maxForecastPeriods {
		periods = periods[:maxForecastPeriods]
	}
	return periods, nil
}

func (c *NWSClient) getJSON(ctx context.Context, u string, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doResilient(ctx, c.httpClient, c.circuit, c.backoff, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

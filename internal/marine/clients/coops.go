package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"github.com/westpointwind/marine-api/internal/common"
	"github.com/westpointwind/marine-api/internal/marine"
)

// unavailableTide is served when the prediction window holds only one extreme.
const unavailableTide = "Unavailable"

// COOPSClient fetches water levels and tide predictions from the NOAA CO-OPS
// API (tidesandcurrents.noaa.gov).
type COOPSClient struct {
	baseURL     string
	application string
	httpClient  *http.Client
	circuit     *gobreaker.CircuitBreaker
	backoff     backoffConfig

	// now is stubbed in tests to pin the prediction date window.
	now func() time.Time
}

// NewCOOPSClient creates a CO-OPS client sharing the given HTTP client.
func NewCOOPSClient(client *http.Client) *COOPSClient {
	return &COOPSClient{
		baseURL:     "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		application: "westpointwinddotcom",
		httpClient:  client,
		circuit:     newBreaker("coops"),
		backoff:     defaultBackoff(),
		now:         time.Now,
	}
}

type tideLevelResponse struct {
	Data []struct {
		Time  string `json:"t"`
		Value string `json:"v"`
	} `json:"data"`
}

type tidePredictionsResponse struct {
	Predictions []struct {
		Time  string `json:"t"`
		Value string `json:"v"`
		Type  string `json:"type"` // "H" or "L"
	} `json:"predictions"`
}

// GetCurrentTide returns the most recent water-level reading in feet. An empty
// series yields nil with no error; the station simply has nothing to report.
func (c *COOPSClient) GetCurrentTide(ctx context.Context, tideStationID string) (*string, error) {
	params := url.Values{}
	params.Set("station", tideStationID)
	params.Set("product", "water_level")
	params.Set("date", "latest")
	params.Set("datum", "mllw")
	params.Set("time_zone", "lst_ldt")
	params.Set("units", "english")
	params.Set("format", "json")
	params.Set("application", c.application)

	var payload tideLevelResponse
	if err := c.getJSON(ctx, params, &payload); err != nil {
		return nil, fmt.Errorf("current tide fetch failed: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, nil
	}

	// The series is chronological; the last reading is the current level.
	return marine.StringPtr(payload.Data[len(payload.Data)-1].Value), nil
}

// GetTidePredictions returns the next two hi/lo extremes predicted in the
// today-through-tomorrow window, formatted for display. Predictions arrive in
// chronological order and are taken verbatim.
func (c *COOPSClient) GetTidePredictions(ctx context.Context, tideStationID string) (marine.TidePredictions, error) {
	today := c.now()
	tomorrow := today.AddDate(0, 0, 1)

	params := url.Values{}
	params.Set("station", tideStationID)
	params.Set("product", "predictions")
	params.Set("begin_date", today.Format("20060102"))
	params.Set("end_date", tomorrow.Format("20060102"))
	params.Set("datum", "MLLW")
	params.Set("time_zone", "lst_ldt")
	params.Set("units", "english")
	params.Set("interval", "hilo")
	params.Set("format", "json")
	params.Set("application", c.application)

	var payload tidePredictionsResponse
	if err := c.getJSON(ctx, params, &payload); err != nil {
		return marine.TidePredictions{}, fmt.Errorf("tide predictions fetch failed: %w", err)
	}

	if len(payload.Predictions) == 0 {
		return marine.TidePredictions{}, nil
	}

	first := payload.Predictions[0]
	out := marine.TidePredictions{
		Next:  fmt.Sprintf("%s %s ft %s", common.FormatTideTime(first.Time), first.Value, first.Type),
		After: unavailableTide,
	}

	if len(payload.Predictions) > 1 {
		second := payload.Predictions[1]
		out.After = fmt.Sprintf("%s %s ft %s", common.FormatTideTime(second.Time), second.Value, second.Type)
	}

	return out, nil
}

func (c *COOPSClient) getJSON(ctx context.Context, params url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), nil)
	}

	resp, err := doResilient(ctx, c.httpClient, c.circuit, c.backoff, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/westpointwind/marine-api/internal/common"
	"github.com/westpointwind/marine-api/internal/marine"
)

// NDBC realtime2 column offsets. The feed is whitespace-delimited with the
// most recent reading first:
// #YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP VIS PTDY  TIDE
const (
	colWindDirection = 5  // degrees true
	colWindSpeed     = 6  // m/s
	colWindGust      = 7  // m/s
	colAirTemp       = 13 // Celsius
)

// missingValue is NDBC's marker for a field the station did not report.
const missingValue = "MM"

// ErrNoData is returned when the realtime2 feed contains no usable data lines.
var ErrNoData = errors.New("no data available from NDBC")

// NDBCClient fetches realtime buoy observations from the NDBC text feed.
type NDBCClient struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	backoff    backoffConfig
}

// NewNDBCClient creates an NDBC client sharing the given HTTP client.
func NewNDBCClient(client *http.Client) *NDBCClient {
	return &NDBCClient{
		baseURL:    "https://www.ndbc.noaa.gov/data/realtime2",
		httpClient: client,
		circuit:    newBreaker("ndbc"),
		backoff:    defaultBackoff(),
	}
}

// GetObservations fetches and parses the latest reading for a station.
func (c *NDBCClient) GetObservations(ctx context.Context, stationID string) (marine.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s.txt", c.baseURL, stationID), nil)
	}

	resp, err := doResilient(ctx, c.httpClient, c.circuit, c.backoff, buildRequest)
	if err != nil {
		return marine.Observation{}, fmt.Errorf("ndbc fetch failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return marine.Observation{}, fmt.Errorf("ndbc read failed: %w", err)
	}

	return parseRealtime2(stationID, string(raw))
}

// parseRealtime2 extracts the most recent observation from the columnar
// realtime2 payload. `MM` fields are represented as absent, never zero.
func parseRealtime2(stationID, raw string) (marine.Observation, error) {
	var latest []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		latest = strings.Fields(line)
		break
	}

	if latest == nil {
		return marine.Observation{}, ErrNoData
	}

	obs := marine.Observation{StationID: stationID}

	if v, ok := parseColumn(latest, colWindSpeed); ok {
		obs.WindSpeed = marine.Float64Ptr(common.MetersPerSecondToMph(v))
	}
	if v, ok := parseColumn(latest, colWindDirection); ok {
		obs.WindDirection = marine.Float64Ptr(v)
	}
	if v, ok := parseColumn(latest, colWindGust); ok {
		obs.WindGust = marine.Float64Ptr(common.MetersPerSecondToMph(v))
	}
	if v, ok := parseColumn(latest, colAirTemp); ok {
		obs.AirTemp = marine.Float64Ptr(common.CelsiusToFahrenheit(v))
	}

	return obs, nil
}

func parseColumn(fields []string, idx int) (float64, bool) {
	if idx >= len(fields) || fields[idx] == missingValue {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

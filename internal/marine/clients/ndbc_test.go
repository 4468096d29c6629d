package clients

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const realtime2Sample = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP VIS PTDY  TIDE
#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC nmi  hPa    ft
2026 02 10 15 40 180  5.0  7.0    MM    MM    MM  MM 1015.2  10.5   9.8    MM  MM   MM    MM
2026 02 10 15 30 170  4.5  6.0    MM    MM    MM  MM 1015.5  10.4   9.8    MM  MM   MM    MM
`

func TestParseRealtime2(t *testing.T) {
	obs, err := parseRealtime2("WPOW1", realtime2Sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if obs.StationID != "WPOW1" {
		t.Errorf("stationId = %q", obs.StationID)
	}
	if obs.WindDirection == nil || *obs.WindDirection != 180 {
		t.Errorf("windDirection = %v, want 180", obs.WindDirection)
	}
	if obs.WindSpeed == nil || math.Abs(*obs.WindSpeed-11.1847) > 0.001 {
		t.Errorf("windSpeed = %v, want ~11.1847 mph", obs.WindSpeed)
	}
	if obs.WindGust == nil || math.Abs(*obs.WindGust-15.6586) > 0.001 {
		t.Errorf("windGust = %v, want ~15.6586 mph", obs.WindGust)
	}
	// Air temperature is served in Fahrenheit.
	if obs.AirTemp == nil || math.Abs(*obs.AirTemp-50.9) > 0.001 {
		t.Errorf("airTemp = %v, want 50.9 F", obs.AirTemp)
	}
}

func TestParseRealtime2TakesMostRecentLine(t *testing.T) {
	obs, err := parseRealtime2("WPOW1", realtime2Sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The second data line has WDIR 170; the first (most recent) must win.
	if *obs.WindDirection != 180 {
		t.Errorf("windDirection = %v, want the first data line's 180", *obs.WindDirection)
	}
}

func TestParseRealtime2AllMissing(t *testing.T) {
	payload := "#header\n2026 02 10 15 40 MM MM MM MM MM MM MM MM MM MM MM MM MM MM\n"
	obs, err := parseRealtime2("WPOW1", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.StationID != "WPOW1" {
		t.Errorf("stationId = %q", obs.StationID)
	}
	// MM means absent, never zero.
	if obs.WindSpeed != nil || obs.WindDirection != nil || obs.WindGust != nil || obs.AirTemp != nil {
		t.Errorf("MM fields must be absent: %+v", obs)
	}
}

func TestParseRealtime2NoDataLines(t *testing.T) {
	for _, payload := range []string{"", "#only\n#headers\n", "\n  \n"} {
		if _, err := parseRealtime2("WPOW1", payload); !errors.Is(err, ErrNoData) {
			t.Errorf("payload %q: err = %v, want ErrNoData", payload, err)
		}
	}
}

func TestNDBCClientFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, realtime2Sample)
	}))
	defer srv.Close()

	c := NewNDBCClient(srv.Client())
	c.baseURL = srv.URL

	obs, err := c.GetObservations(context.Background(), "WPOW1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/WPOW1.txt" {
		t.Errorf("requested %q, want /WPOW1.txt", gotPath)
	}
	if obs.WindSpeed == nil {
		t.Error("expected parsed wind speed")
	}
}

func TestNDBCClientRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, realtime2Sample)
	}))
	defer srv.Close()

	c := NewNDBCClient(srv.Client())
	c.baseURL = srv.URL
	c.backoff = backoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}

	if _, err := c.GetObservations(context.Background(), "WPOW1"); err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

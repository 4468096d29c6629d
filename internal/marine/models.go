package marine

// Observation is the merged marine-conditions record served to clients. Every
// field except StationID comes from an independently-fallible upstream fetch,
// so each is optional; an absent field is not an error.
type Observation struct {
	StationID     string   `json:"stationId,omitempty"`
	WindSpeed     *float64 `json:"windSpeed,omitempty"`     // mph
	WindDirection *float64 `json:"windDirection,omitempty"` // degrees true
	WindGust      *float64 `json:"windGust,omitempty"`      // mph
	AirTemp       *float64 `json:"airTemp,omitempty"`       // Fahrenheit
	CurrentTide   *string  `json:"currentTide,omitempty"`   // feet, as reported
	NextTide      string   `json:"nextTide,omitempty"`
	NextTideAfter string   `json:"nextTideAfter,omitempty"`
}

// ForecastPeriod is one hourly period from the NWS gridded forecast, passed
// through in upstream units.
type ForecastPeriod struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	WindSpeed       string `json:"windSpeed"` // free text, "5 mph" or "5 to 10 mph"
	WindDirection   string `json:"windDirection"`
	ShortForecast   string `json:"shortForecast"`
	Temperature     int    `json:"temperature"`
	TemperatureUnit string `json:"temperatureUnit"`
	IsDaytime       bool   `json:"isDaytime"`
}

// ForecastBundle is the resolved hourly forecast for a station, including the
// coordinates the grid lookup went through.
type ForecastBundle struct {
	StationID string           `json:"stationId"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Periods   []ForecastPeriod `json:"periods"`
}

// TidePredictions holds the next two predicted tide extremes, formatted for
// display. After is "Unavailable" when the window contained only one extreme.
type TidePredictions struct {
	Next  string
	After string
}

// Float64Ptr returns a pointer to v. Convenience for building Observations.
func Float64Ptr(v float64) *float64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

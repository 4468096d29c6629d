package common

import (
	"strings"
	"time"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// MetersPerSecondToMph converts a wind speed from m/s to miles per hour.
func MetersPerSecondToMph(ms float64) float64 {
	return ms * 2.23694
}

// CelsiusToFahrenheit converts a temperature from Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// coopsTimeLayout is the timestamp format used by the CO-OPS API ("t" fields).
const coopsTimeLayout = "2006-01-02 15:04"

// FormatTideTime renders a CO-OPS timestamp as a short localized date/time
// string ("1/2/2006 3:04:05 PM"). Unparseable input is returned verbatim.
func FormatTideTime(raw string) string {
	ts, err := time.ParseInLocation(coopsTimeLayout, raw, time.Local)
	if err != nil {
		return raw
	}
	return ts.Format("1/2/2006 3:04:05 PM")
}

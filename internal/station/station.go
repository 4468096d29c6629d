// Package station validates user-supplied station identifiers before they are
// interpolated into outbound NOAA request URLs. The whitelist filter is the only
// gate preventing a request parameter from steering a server-side request at an
// arbitrary host (CWE-918).
package station

// DefaultMaxLen bounds station identifiers; NDBC/NWS codes are 4-5 characters,
// CO-OPS tide stations 7 digits.
const DefaultMaxLen = 10

// IsValid reports whether id is a non-empty alphanumeric string no longer than maxLen.
func IsValid(id string, maxLen int) bool {
	if len(id) == 0 || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// Sanitize strips every non-alphanumeric character from raw, truncates the result
// to DefaultMaxLen, and returns fallback if nothing valid remains.
func Sanitize(raw, fallback string) string {
	return SanitizeN(raw, fallback, DefaultMaxLen)
}

// SanitizeN is Sanitize with an explicit length bound.
func SanitizeN(raw, fallback string, maxLen int) string {
	if raw == "" {
		return fallback
	}

	buf := make([]byte, 0, maxLen)
	for i := 0; i < len(raw) && len(buf) < maxLen; i++ {
		c := raw[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			buf = append(buf, c)
		}
	}

	cleaned := string(buf)
	if !IsValid(cleaned, maxLen) {
		return fallback
	}
	return cleaned
}

package report

import (
	"strconv"
	"strings"
	"time"
)

// Display layouts used by every feed the simulation service produces.
const (
	timestampLayout = "02/01/2006 15:04"
	dayLayout       = "02/01/2006"
)

// ParseTimestamp parses a full "DD/MM/YYYY HH:MM" display timestamp. The second
// return value reports whether the input conformed; callers never receive an
// error or a panic, only an explicit failure marker.
func ParseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(timestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDay parses a date-only "DD/MM/YYYY" string into a calendar-day value.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey truncates a date or timestamp display string to its day portion.
// Correlation is done on this normalized string, not on parsed date values, so
// malformed entries degrade to keys that match nothing instead of failing.
func DayKey(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return s
}

// ParseVolume parses a display numeric with optional thousands separators,
// e.g. "12,345" -> 12345. Missing or malformed fields yield the documented
// default of 0.
func ParseVolume(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCount parses an integer display field, defaulting to 0.
func ParseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

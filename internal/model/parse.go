package model

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for provider timestamps, most specific first.
// Providers emit full RFC3339 ("2024-06-12T09:00:00Z",
// "...+02:00"), zone-less datetimes (Todoist) and bare dates
// (all-day calendar entries).
var parseLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02", true},
}

// ParseRFC3339 parses a provider timestamp into the reference
// timezone.
//
// keepMidnightLocal preserves task-due semantics: a timestamp whose
// wall clock reads exactly midnight (in its own offset) denotes a
// date, not an instant, so it is pinned to local midnight of that
// date instead of being shifted by the offset conversion.
func ParseRFC3339(value string, loc *time.Location, keepMidnightLocal bool) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, l := range parseLayouts {
		parsed, err := time.Parse(l.layout, trimmed)
		if err != nil {
			continue
		}
		if l.naive {
			// Zone-less values already describe local wall time.
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
				parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(), loc)
		}
		if keepMidnightLocal && isWallMidnight(parsed) {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc), nil
		}
		return parsed.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid RFC3339 datetime: %q", value)
}

func isWallMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func isLocalMidnight(t time.Time, loc *time.Location) bool {
	return isWallMidnight(t.In(loc))
}

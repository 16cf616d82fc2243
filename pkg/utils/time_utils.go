package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// LoadLocation resolves the configured day-boundary zone. Empty and "Local" both mean the
// process zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ZoneName returns a name the database can resolve. time.Local reports "Local", so it is
// replaced by $TZ when that loads, and by UTC otherwise.
func ZoneName(loc *time.Location) string {
	if loc == nil {
		return "UTC"
	}
	if name := loc.String(); name != "Local" {
		return name
	}
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" && tz != "Local" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	return "UTC"
}

// FromUnixSeconds converts an epoch value in seconds. Returns zero time if t<=0.
func FromUnixSeconds(t int64, loc *time.Location) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(loc)
}

func FormatRFC3339(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

// FormatRFC3339Ptr renders nil as the empty string.
func FormatRFC3339Ptr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return FormatRFC3339(*t, loc)
}

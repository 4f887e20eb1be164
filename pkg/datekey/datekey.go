// Package datekey provides calendar-day keys used for grouping and
// comparing score records. Keys are zero-padded YYYY-MM-DD strings derived
// from the local calendar day; no timezone conversion is performed, so
// submission time and report-query time must agree on what "today" means.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the wire format of a day key.
const Layout = "2006-01-02"

// Today returns the day key for the current local calendar day.
func Today() string {
	return Format(time.Now())
}

// Format returns the day key for t in its own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse converts a day key back into a time at local midnight.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed day key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

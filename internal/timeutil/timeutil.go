// Package timeutil holds the timestamp helpers shared by plans, milestones
// and profiles. All timestamps are UTC and serialised as ISO-8601.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Clock returns the current instant. Services take a Clock so tests can pin time.
type Clock func() time.Time

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// SystemClock is the production Clock.
var SystemClock Clock = Now

// layouts accepted by Parse, tried in order. Timestamps without a zone are UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02",
}

// Parse reads an ISO-8601 timestamp. A trailing "Z", an explicit offset or no
// zone at all are accepted; zone-less values are interpreted as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parsing timestamp: empty value")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q: unrecognised format", s)
}

// Format renders t as RFC3339 with nanoseconds in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Compare returns -1, 0 or 1 when a is before, equal to or after b.
func Compare(a, b time.Time) int {
	return a.Compare(b)
}

// IsNewer reports whether a is strictly after b. Equal instants are not newer.
func IsNewer(a, b time.Time) bool {
	return a.After(b)
}

// Later returns now when it is strictly after prev, otherwise prev plus one
// microsecond. Commits use it so last_updated always advances even when the
// clock has not moved or has stepped backwards.
func Later(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

// Package biztime centralizes time access. All storage and token arithmetic
// use UTC; implicit local timezone is prohibited.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FromUnix converts a unix timestamp (seconds) to UTC time.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

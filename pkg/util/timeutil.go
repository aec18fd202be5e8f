package util

import "time"

// Clock returns the current instant. Services keep one so tests can pin time.
type Clock func() time.Time

// NowUTC is the production Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Package timewindow answers the time-based eligibility questions that gate
// publishing, editing, booking and cancelling rides.  Every caller receives
// "now" from an injected Clock so tests can simulate past and future
// departures deterministically.
package timewindow

import "time"

// CancellationGrace is the window before departure during which a rider can
// no longer cancel a booking.
const CancellationGrace = time.Hour

// Clock supplies the current time.  Production code uses RealClock; tests
// substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.  Intended for tests.
type FixedClock struct{ T time.Time }

func (f FixedClock) Now() time.Time { return f.T }

// IsFuture reports whether departure is strictly after now.  Rides whose
// departure equals now are already considered expired.
func IsFuture(departure, now time.Time) bool {
	return departure.After(now)
}

// CancellationOpen reports whether a booking on a ride departing at the
// given instant may still be cancelled: departure must be more than the
// grace period away.
func CancellationOpen(departure, now time.Time) bool {
	return departure.Sub(now) > CancellationGrace
}

// Combine merges a calendar date and a wall-clock time into one departure
// instant in UTC.  The date contributes year/month/day and the time
// contributes hour/minute; seconds are dropped to match the HH:MM wire
// format.
func Combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

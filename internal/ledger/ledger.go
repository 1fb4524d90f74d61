// Package ledger holds the seat-capacity arithmetic for rides.  A ride's
// remaining capacity is its declared seat count minus the seats held by
// accepted bookings; pending and rejected bookings hold nothing.  The
// functions are pure; callers are responsible for evaluating them inside
// the same transaction as the mutation they guard.
package ledger

// Seat capacity bounds for a published ride.
const (
	MinCapacity = 1
	MaxCapacity = 2
)

// Remaining returns the number of seats still free on a ride given its
// declared capacity and the sum of seats_requested over accepted bookings.
// The result is never negative.
func Remaining(capacity, accepted int) int {
	r := capacity - accepted
	if r < 0 {
		return 0
	}
	return r
}

// CanReserve reports whether a request for the given number of seats can be
// granted out of the remaining capacity.  Zero or negative requests are
// always refused.
func CanReserve(remaining, requested int) bool {
	return requested >= MinCapacity && requested <= remaining
}

// ValidCapacity reports whether a declared ride capacity is within the
// allowed bounds.
func ValidCapacity(capacity int) bool {
	return capacity >= MinCapacity && capacity <= MaxCapacity
}

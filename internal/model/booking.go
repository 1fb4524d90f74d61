package model

import (
	"time"

	"github.com/iliyamo/share-ride/internal/timewindow"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingPending is the initial state of every booking request.
	BookingPending BookingStatus = "pending"
	// BookingAccepted means the driver approved the request; the seats
	// count against the ride's capacity from this point on.
	BookingAccepted BookingStatus = "accepted"
	// BookingRejected means the driver declined the request.  Terminal.
	BookingRejected BookingStatus = "rejected"
)

// IsValid reports whether s is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingRejected:
		return true
	}
	return false
}

// Active reports whether the booking still holds a claim on the ride:
// pending and accepted bookings are active, rejected ones are not.  A user
// may have at most one active booking per ride.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingAccepted
}

// Booking represents one rider's request to reserve seats on a ride.
// Bookings start pending and are decided exactly once by the ride owner.
// Cancellation removes the row entirely rather than adding a fourth state.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – requesting rider.
//  RideID         – target ride.
//  SeatsRequested – seats asked for, >= 1.
//  Status         – pending, accepted or rejected.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64        // bookings.id
	UserID         uint64        // bookings.user_id
	RideID         uint64        // bookings.ride_id
	SeatsRequested int           // bookings.seats_requested
	Status         BookingStatus // bookings.status
	CreatedAt      time.Time     // bookings.created_at
	UpdatedAt      time.Time     // bookings.updated_at
}

// CanDecide reports whether a driver may accept or reject this booking:
// the actor must own the ride, the booking must still be pending and the
// ride must not have departed.  Both decisions share the same guard set.
func (b Booking) CanDecide(actorID, rideOwnerID uint64, departure, now time.Time) bool {
	return actorID == rideOwnerID &&
		b.Status == BookingPending &&
		timewindow.IsFuture(departure, now)
}

// CanCancel reports whether the requesting rider may cancel this booking:
// only the rider who made it, only while it is active, and only while the
// departure is more than the grace period away.
func (b Booking) CanCancel(actorID uint64, departure, now time.Time) bool {
	return actorID == b.UserID &&
		b.Status.Active() &&
		timewindow.CancellationOpen(departure, now)
}

package model

import (
	"time"

	"github.com/iliyamo/share-ride/internal/timewindow"
)

// Ride represents one offered trip.  A ride is exclusively owned by the
// user who published it; only that user may edit or delete it.  The
// departure instant is the combination of RideDate and RideTime and must
// be strictly in the future at creation and at every edit.  Expired rides
// are filtered out of active views but never physically removed here.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owning driver.
//  StartingPoint  – trip origin.
//  Destination    – trip destination.
//  RideDate       – departure date (date part only).
//  RideTime       – departure time of day (minute precision).
//  AvailableSeats – declared capacity, 1..2.
//  Price          – price per seat, >= 0.
//  AC             – "yes"/"no" air conditioning flag.
//  PetsAllowed    – "yes"/"no" pets flag.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Ride struct {
	ID             uint64    // rides.id
	UserID         uint64    // rides.user_id
	StartingPoint  string    // rides.starting_point
	Destination    string    // rides.destination
	RideDate       time.Time // rides.ride_date
	RideTime       time.Time // rides.ride_time
	AvailableSeats int       // rides.available_seats
	Price          float64   // rides.price
	AC             string    // rides.ac
	PetsAllowed    string    // rides.pets_allowed
	CreatedAt      time.Time // rides.created_at
	UpdatedAt      time.Time // rides.updated_at
}

// DepartureAt returns the single departure instant formed from the ride's
// date and time columns.
func (r Ride) DepartureAt() time.Time {
	return timewindow.Combine(r.RideDate, r.RideTime)
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingDecidedEvent is published when a driver accepts or rejects a
// booking request.  It carries enough information for downstream consumers
// to log or notify without querying the primary database.
type BookingDecidedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	RideID         uint64 `json:"ride_id"`
	RiderID        uint64 `json:"rider_id"`
	RiderEmail     string `json:"rider_email"`
	SeatsRequested int    `json:"seats_requested"`
	StartingPoint  string `json:"starting_point"`
	Destination    string `json:"destination"`
	DepartureAt    string `json:"departure_at"`
	Status         string `json:"status"`
	DecidedAt      string `json:"decided_at"`
}

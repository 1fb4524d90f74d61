// Package repository defines error values shared across the ride, booking
// and user repositories.  Callers must not be able to tell whether a
// mutation failed because the record is missing, owned by someone else, in
// the wrong state or past its time window: all four collapse into
// ErrDenied at the API boundary.  Internally each denial carries its real
// cause so logs and tests can still tell them apart.
package repository

import "errors"

// ErrDenied is the collapsed "not found or not permitted" outcome.  Match
// with errors.Is; the concrete cause is available via errors.As on
// DeniedError.
var ErrDenied = errors.New("not found or not permitted")

// DeniedCause identifies why an operation was denied.  Never serialized to
// callers.
type DeniedCause string

const (
	DeniedNotFound    DeniedCause = "not_found"
	DeniedWrongOwner  DeniedCause = "wrong_owner"
	DeniedWrongStatus DeniedCause = "wrong_status"
	DeniedExpired     DeniedCause = "expired"
)

// DeniedError wraps ErrDenied with the true cause of the denial.
type DeniedError struct {
	Cause DeniedCause
}

func (e *DeniedError) Error() string { return "denied: " + string(e.Cause) }

// Unwrap makes errors.Is(err, ErrDenied) hold for every denial regardless
// of cause.
func (e *DeniedError) Unwrap() error { return ErrDenied }

func denied(cause DeniedCause) error { return &DeniedError{Cause: cause} }

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBooking is returned when a rider already has an active
// (pending or accepted) booking on the ride.
var ErrDuplicateBooking = errors.New("active booking already exists for this ride")

// ErrNotEnoughSeats is returned when the seat ledger cannot grant the
// requested number of seats.
var ErrNotEnoughSeats = errors.New("not enough seats available")

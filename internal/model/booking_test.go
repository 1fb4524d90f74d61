package model

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestBookingStatus(t *testing.T) {
	for s, valid := range map[BookingStatus]bool{
		BookingPending: true, BookingAccepted: true, BookingRejected: true,
		"cancelled": false, "": false,
	} {
		if s.IsValid() != valid {
			t.Errorf("IsValid(%q) = %v, want %v", s, s.IsValid(), valid)
		}
	}
	if !BookingPending.Active() || !BookingAccepted.Active() {
		t.Error("pending and accepted must be active")
	}
	if BookingRejected.Active() {
		t.Error("rejected must not be active")
	}
}

func TestCanDecide(t *testing.T) {
	const owner, rider, stranger = 1, 2, 3
	future := now.Add(2 * time.Hour)
	past := now.Add(-time.Hour)

	b := Booking{ID: 10, UserID: rider, RideID: 5, SeatsRequested: 1, Status: BookingPending}

	if !b.CanDecide(owner, owner, future, now) {
		t.Error("owner must be able to decide a pending booking on a future ride")
	}
	if b.CanDecide(stranger, owner, future, now) {
		t.Error("non-owner must not decide")
	}
	if b.CanDecide(rider, owner, future, now) {
		t.Error("the rider must not decide their own request")
	}
	if b.CanDecide(owner, owner, past, now) {
		t.Error("departed ride must not accept decisions")
	}
	if b.CanDecide(owner, owner, now, now) {
		t.Error("ride departing exactly now is already expired")
	}

	for _, s := range []BookingStatus{BookingAccepted, BookingRejected} {
		decided := b
		decided.Status = s
		if decided.CanDecide(owner, owner, future, now) {
			t.Errorf("booking in state %q must not be decided again", s)
		}
	}
}

func TestCanCancel(t *testing.T) {
	const rider, stranger = 2, 3
	b := Booking{ID: 10, UserID: rider, Status: BookingPending}

	if !b.CanCancel(rider, now.Add(2*time.Hour), now) {
		t.Error("rider must cancel an active booking two hours out")
	}
	if b.CanCancel(stranger, now.Add(2*time.Hour), now) {
		t.Error("someone else must not cancel the booking")
	}
	if b.CanCancel(rider, now.Add(time.Hour), now) {
		t.Error("cancellation exactly one hour before departure must be refused")
	}
	if b.CanCancel(rider, now.Add(30*time.Minute), now) {
		t.Error("cancellation inside the grace window must be refused")
	}

	accepted := b
	accepted.Status = BookingAccepted
	if !accepted.CanCancel(rider, now.Add(2*time.Hour), now) {
		t.Error("accepted bookings are cancellable too")
	}

	rejected := b
	rejected.Status = BookingRejected
	if rejected.CanCancel(rider, now.Add(2*time.Hour), now) {
		t.Error("rejected bookings hold nothing and cannot be cancelled")
	}
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/share-ride/internal/timewindow"
)

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &BookingRepo{DB: db, Clock: timewindow.FixedClock{T: testNow}}, mock
}

func expectRideRowLock(mock sqlmock.Sqlmock, rideID, ownerID uint64, capacity int, departure time.Time) {
	mock.ExpectQuery("SELECT user_id, available_seats, TIMESTAMP").
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "available_seats", "departure"}).
			AddRow(ownerID, capacity, departure))
}

// A rider with a pending or accepted booking on the ride cannot request
// again; the COUNT over active statuses catches it inside the transaction.
func TestRequestDuplicateActiveBooking(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectBegin()
	expectRideRowLock(mock, 7, 1, 2, testNow.Add(24*time.Hour))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(2), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Request(context.Background(), 2, 7, 1)
	if !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("second request: err = %v, want ErrDuplicateBooking", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRequestNotEnoughSeats(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectBegin()
	expectRideRowLock(mock, 7, 1, 2, testNow.Add(24*time.Hour))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(2), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(2))
	mock.ExpectRollback()

	_, err := repo.Request(context.Background(), 2, 7, 1)
	if !errors.Is(err, ErrNotEnoughSeats) {
		t.Fatalf("full ride: err = %v, want ErrNotEnoughSeats", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRequestExpiredRideDenied(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Departure exactly at "now" is already expired.
	mock.ExpectBegin()
	expectRideRowLock(mock, 7, 1, 2, testNow)
	mock.ExpectRollback()

	_, err := repo.Request(context.Background(), 2, 7, 1)
	var de *DeniedError
	if !errors.As(err, &de) || de.Cause != DeniedExpired {
		t.Fatalf("expired ride: err = %v, want expired denial", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRequestOwnRideDenied(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectBegin()
	expectRideRowLock(mock, 7, 2, 2, testNow.Add(24*time.Hour))
	mock.ExpectRollback()

	_, err := repo.Request(context.Background(), 2, 7, 1)
	var de *DeniedError
	if !errors.As(err, &de) || de.Cause != DeniedWrongOwner {
		t.Fatalf("own ride: err = %v, want wrong-owner denial", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListPastForRiderIncludesBoundaryDeparture(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("TIMESTAMP(r.ride_date, r.ride_time) <= ?")).
		WithArgs("rider@example.com", testNow).
		WillReturnRows(sqlmock.NewRows([]string{
			"starting_point", "destination", "ride_date", "ride_time",
			"seats_requested", "status", "full_name", "phone", "vehicle_number",
		}).AddRow("Delhi", "Agra", testNow, "12:00:00", 1, "accepted", "D", "9876543210", "DL01AB1234"))

	out, err := repo.ListPastForRider(context.Background(), "rider@example.com")
	if err != nil {
		t.Fatalf("list past booked: %v", err)
	}
	if len(out) != 1 || out[0].Status != "accepted" {
		t.Fatalf("got %+v, want the boundary booking", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

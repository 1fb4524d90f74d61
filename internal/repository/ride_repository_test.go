package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newRideRepo(t *testing.T) (*RideRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &RideRepo{DB: db, Clock: timewindow.FixedClock{T: testNow}}, mock
}

func futureRide() model.Ride {
	return model.Ride{
		ID:             5,
		UserID:         1,
		StartingPoint:  "Delhi",
		Destination:    "Agra",
		RideDate:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		RideTime:       time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		AvailableSeats: 2,
		Price:          450,
		AC:             "yes",
		PetsAllowed:    "no",
	}
}

func expectRideUpdate(mock sqlmock.Sqlmock, ride model.Ride, affected int64) {
	mock.ExpectExec("UPDATE rides").
		WithArgs(ride.StartingPoint, ride.Destination, "2025-06-20", "10:00:00",
			ride.AvailableSeats, ride.Price, ride.AC, ride.PetsAllowed,
			ride.ID, ride.UserID, testNow).
		WillReturnResult(sqlmock.NewResult(0, affected))
}

// The edit guard lives in the UPDATE's WHERE clause: the stored departure
// must still be after the clock's now.  When the guard filters the row out
// the denial is classified from a follow-up read.
func TestUpdateExpiredRideDenied(t *testing.T) {
	repo, mock := newRideRepo(t)
	ride := futureRide()

	expectRideUpdate(mock, ride, 0)
	mock.ExpectQuery("SELECT user_id, TIMESTAMP").
		WithArgs(ride.ID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "departure"}).
			AddRow(ride.UserID, testNow.Add(-time.Hour)))

	err := repo.Update(context.Background(), ride)
	if !errors.Is(err, ErrDenied) {
		t.Fatalf("expired edit: err = %v, want ErrDenied", err)
	}
	var de *DeniedError
	if !errors.As(err, &de) || de.Cause != DeniedExpired {
		t.Errorf("cause = %+v, want expired", de)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateWrongOwnerDenied(t *testing.T) {
	repo, mock := newRideRepo(t)
	ride := futureRide()

	expectRideUpdate(mock, ride, 0)
	mock.ExpectQuery("SELECT user_id, TIMESTAMP").
		WithArgs(ride.ID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "departure"}).
			AddRow(uint64(99), testNow.Add(24*time.Hour)))

	err := repo.Update(context.Background(), ride)
	var de *DeniedError
	if !errors.As(err, &de) || de.Cause != DeniedWrongOwner {
		t.Fatalf("foreign ride edit: err = %v, want wrong-owner denial", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateBindsClockNow(t *testing.T) {
	repo, mock := newRideRepo(t)
	ride := futureRide()

	// WithArgs inside expectRideUpdate pins the guard parameter to the
	// injected clock's instant; a drifting query would not match.
	expectRideUpdate(mock, ride, 1)

	if err := repo.Update(context.Background(), ride); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListPastPublishedIncludesBoundaryDeparture(t *testing.T) {
	repo, mock := newRideRepo(t)

	// A ride departing exactly at the query instant is already expired and
	// belongs to the past view, hence the inclusive bound.
	mock.ExpectQuery(regexp.QuoteMeta("TIMESTAMP(r.ride_date, r.ride_time) <= ?")).
		WithArgs("driver@example.com", testNow).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "starting_point", "destination", "ride_date", "ride_time", "available_seats",
		}).AddRow(uint64(5), "Delhi", "Agra", testNow, "12:00:00", 2))
	mock.ExpectQuery("SELECT b.ride_id").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"ride_id", "full_name", "phone", "seats_requested", "status",
		}))

	out, err := repo.ListPastPublished(context.Background(), "driver@example.com")
	if err != nil {
		t.Fatalf("list past published: %v", err)
	}
	if len(out) != 1 || out[0].ID != 5 {
		t.Fatalf("got %+v, want the boundary ride", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

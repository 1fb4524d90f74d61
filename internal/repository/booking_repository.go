package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/share-ride/internal/ledger"
	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

// BookingRepo owns creation and state changes of bookings.  The seat
// ledger is evaluated inside the same transaction as the mutation it
// guards, with the ride row locked, so concurrent requests or acceptances
// can never oversell a ride.
type BookingRepo struct {
	DB    *sql.DB
	Clock timewindow.Clock
}

func NewBookingRepo(db *sql.DB, clock timewindow.Clock) *BookingRepo {
	return &BookingRepo{DB: db, Clock: clock}
}

// acceptedSeatsTx sums the seats held by accepted bookings on a ride.  Must
// run inside a transaction that already locked the ride row.
func (r *BookingRepo) acceptedSeatsTx(ctx context.Context, tx *sql.Tx, rideID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(seats_requested),0) FROM bookings WHERE ride_id=? AND status='accepted'",
		rideID).Scan(&n)
	return n, err
}

// Request creates a pending booking for the rider on the given ride.  The
// whole guard chain runs in one transaction with the ride row locked:
// ride exists, not owned by the rider, departure still in the future, no
// active booking by this rider on the ride, and the seat ledger can grant
// the requested count.
func (r *BookingRepo) Request(ctx context.Context, riderID, rideID uint64, seats int) (uint64, error) {
	now := r.Clock.Now()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var ownerID uint64
	var capacity int
	var departure time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, available_seats, TIMESTAMP(ride_date, ride_time)
		 FROM rides WHERE id=? FOR UPDATE`,
		rideID).Scan(&ownerID, &capacity, &departure)
	if err == sql.ErrNoRows {
		return 0, denied(DeniedNotFound)
	}
	if err != nil {
		return 0, err
	}
	if ownerID == riderID {
		return 0, denied(DeniedWrongOwner)
	}
	if !timewindow.IsFuture(departure, now) {
		return 0, denied(DeniedExpired)
	}

	var active int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE user_id=? AND ride_id=? AND status IN ('pending','accepted')",
		riderID, rideID).Scan(&active)
	if err != nil {
		return 0, err
	}
	if active > 0 {
		return 0, ErrDuplicateBooking
	}

	accepted, err := r.acceptedSeatsTx(ctx, tx, rideID)
	if err != nil {
		return 0, err
	}
	if !ledger.CanReserve(ledger.Remaining(capacity, accepted), seats) {
		return 0, ErrNotEnoughSeats
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, ride_id, seats_requested, status) VALUES (?,?,?,'pending')",
		riderID, rideID, seats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// DecidedBooking carries what a consumer needs to know about a decided
// booking without querying the store again.
type DecidedBooking struct {
	BookingID      uint64
	RideID         uint64
	RiderID        uint64
	RiderEmail     string
	SeatsRequested int
	StartingPoint  string
	Destination    string
	DepartureAt    time.Time
	Status         model.BookingStatus
}

// Accept transitions a pending booking to accepted on behalf of the ride
// owner.  On top of the shared decision guards, it re-checks the seat
// ledger inside the transaction so racing acceptances cannot oversell.
func (r *BookingRepo) Accept(ctx context.Context, bookingID, actorID uint64) (*DecidedBooking, error) {
	return r.decide(ctx, bookingID, actorID, model.BookingAccepted)
}

// Reject transitions a pending booking to rejected.  Same guards as
// Accept, no seat-ledger effect.
func (r *BookingRepo) Reject(ctx context.Context, bookingID, actorID uint64) (*DecidedBooking, error) {
	return r.decide(ctx, bookingID, actorID, model.BookingRejected)
}

func (r *BookingRepo) decide(ctx context.Context, bookingID, actorID uint64, target model.BookingStatus) (*DecidedBooking, error) {
	now := r.Clock.Now()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var b model.Booking
	var ownerID uint64
	var capacity int
	var dec DecidedBooking
	err = tx.QueryRowContext(ctx,
		`SELECT b.id, b.user_id, b.ride_id, b.seats_requested, b.status,
		        r.user_id, r.available_seats, r.starting_point, r.destination,
		        TIMESTAMP(r.ride_date, r.ride_time), u.email
		 FROM bookings b
		 JOIN rides r ON b.ride_id = r.id
		 JOIN users u ON b.user_id = u.id
		 WHERE b.id=? FOR UPDATE`,
		bookingID).Scan(&b.ID, &b.UserID, &b.RideID, &b.SeatsRequested, &b.Status,
		&ownerID, &capacity, &dec.StartingPoint, &dec.Destination,
		&dec.DepartureAt, &dec.RiderEmail)
	if err == sql.ErrNoRows {
		return nil, denied(DeniedNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !b.CanDecide(actorID, ownerID, dec.DepartureAt, now) {
		switch {
		case actorID != ownerID:
			return nil, denied(DeniedWrongOwner)
		case b.Status != model.BookingPending:
			return nil, denied(DeniedWrongStatus)
		default:
			return nil, denied(DeniedExpired)
		}
	}

	if target == model.BookingAccepted {
		accepted, err := r.acceptedSeatsTx(ctx, tx, b.RideID)
		if err != nil {
			return nil, err
		}
		if !ledger.CanReserve(ledger.Remaining(capacity, accepted), b.SeatsRequested) {
			return nil, ErrNotEnoughSeats
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status='pending'",
		string(target), bookingID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, denied(DeniedWrongStatus)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	dec.BookingID = b.ID
	dec.RideID = b.RideID
	dec.RiderID = b.UserID
	dec.SeatsRequested = b.SeatsRequested
	dec.Status = target
	return &dec, nil
}

// Cancel deletes the rider's active booking on a ride.  The one-hour grace
// guard is part of the conditional DELETE itself, with "now" bound from
// the clock; zero affected rows is classified into a denial cause.
func (r *BookingRepo) Cancel(ctx context.Context, riderID, rideID uint64) error {
	now := r.Clock.Now()
	res, err := r.DB.ExecContext(ctx,
		`DELETE b FROM bookings b
		 JOIN rides r ON b.ride_id = r.id
		 WHERE b.user_id=? AND b.ride_id=? AND b.status IN ('pending','accepted')
		   AND TIMESTAMP(r.ride_date, r.ride_time) > ?`,
		riderID, rideID, now.Add(timewindow.CancellationGrace))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.classifyCancelDenial(ctx, riderID, rideID, now)
	}
	return nil
}

func (r *BookingRepo) classifyCancelDenial(ctx context.Context, riderID, rideID uint64, now time.Time) error {
	var departure time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT TIMESTAMP(ride_date, ride_time) FROM rides WHERE id=?",
		rideID).Scan(&departure)
	if err == sql.ErrNoRows {
		return denied(DeniedNotFound)
	}
	if err != nil {
		return err
	}
	if !timewindow.CancellationOpen(departure, now) {
		return denied(DeniedExpired)
	}
	var active int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE user_id=? AND ride_id=? AND status IN ('pending','accepted')",
		riderID, rideID).Scan(&active); err != nil {
		return err
	}
	if active == 0 {
		return denied(DeniedWrongStatus)
	}
	return denied(DeniedNotFound)
}

// BookedRide is a rider's view of a ride they have requested or hold seats
// on.
type BookedRide struct {
	ID             uint64  `json:"id"`
	StartingPoint  string  `json:"starting_point"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	AvailableSeats int     `json:"available_seats"`
	Price          float64 `json:"price"`
	AC             string  `json:"ac"`
	PetsAllowed    string  `json:"pets_allowed"`
	DriverName     string  `json:"driver_name"`
	CarNumber      string  `json:"car_number"`
	DriverPhone    string  `json:"driver_phone"`
	DriverGender   string  `json:"driver_gender"`
	SeatsRequested int     `json:"seats_requested"`
	Status         string  `json:"status"`
}

// ListForRider returns the rider's bookings on rides that have not yet
// departed, with driver and vehicle details.
func (r *BookingRepo) ListForRider(ctx context.Context, email string) ([]BookedRide, error) {
	now := r.Clock.Now()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.starting_point, r.destination, r.ride_date, r.ride_time,
		        r.available_seats, r.price, r.ac, r.pets_allowed,
		        u.full_name, COALESCE(u.vehicle_number,''), COALESCE(u.phone,''), COALESCE(u.gender,''),
		        b.seats_requested, b.status
		 FROM rides r
		 JOIN bookings b ON r.id = b.ride_id
		 JOIN users u ON r.user_id = u.id
		 WHERE b.user_id = (SELECT id FROM users WHERE email = ?)
		   AND TIMESTAMP(r.ride_date, r.ride_time) > ?`,
		email, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookedRide, 0)
	for rows.Next() {
		var br BookedRide
		var date time.Time
		var timeStr string
		if err := rows.Scan(&br.ID, &br.StartingPoint, &br.Destination, &date, &timeStr,
			&br.AvailableSeats, &br.Price, &br.AC, &br.PetsAllowed,
			&br.DriverName, &br.CarNumber, &br.DriverPhone, &br.DriverGender,
			&br.SeatsRequested, &br.Status); err != nil {
			return nil, err
		}
		br.Date = ymd(date)
		br.Time = hhmm(timeStr)
		out = append(out, br)
	}
	return out, rows.Err()
}

// PastBookedRide is a rider's view of a booking whose ride has departed.
type PastBookedRide struct {
	StartingPoint       string `json:"starting_point"`
	Destination         string `json:"destination"`
	Date                string `json:"date"`
	Time                string `json:"time"`
	SeatsRequested      int    `json:"seats_requested"`
	Status              string `json:"status"`
	DriverName          string `json:"driver_name"`
	DriverPhone         string `json:"driver_phone"`
	DriverVehicleNumber string `json:"driver_vehicle_number"`
}

// ListPastForRider returns the rider's bookings on departed rides, most
// recent departure first.
func (r *BookingRepo) ListPastForRider(ctx context.Context, email string) ([]PastBookedRide, error) {
	now := r.Clock.Now()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.starting_point, r.destination, r.ride_date, r.ride_time,
		        b.seats_requested, b.status,
		        u.full_name, COALESCE(u.phone,''), COALESCE(u.vehicle_number,'')
		 FROM bookings b
		 JOIN rides r ON b.ride_id = r.id
		 JOIN users u ON r.user_id = u.id
		 WHERE b.user_id = (SELECT id FROM users WHERE email = ?)
		   AND TIMESTAMP(r.ride_date, r.ride_time) <= ?
		 ORDER BY TIMESTAMP(r.ride_date, r.ride_time) DESC`,
		email, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PastBookedRide, 0)
	for rows.Next() {
		var pb PastBookedRide
		var date time.Time
		var timeStr string
		if err := rows.Scan(&pb.StartingPoint, &pb.Destination, &date, &timeStr,
			&pb.SeatsRequested, &pb.Status,
			&pb.DriverName, &pb.DriverPhone, &pb.DriverVehicleNumber); err != nil {
			return nil, err
		}
		pb.Date = ymd(date)
		pb.Time = hhmm(timeStr)
		out = append(out, pb)
	}
	return out, rows.Err()
}

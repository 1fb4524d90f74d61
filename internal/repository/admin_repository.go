package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/share-ride/internal/timewindow"
)

// AdminRepo backs the admin panel: user listing, cascading user deletion
// and ride reports.  Deletion is the only multi-statement mutation in the
// system and is wrapped in a single all-or-nothing transaction.
type AdminRepo struct {
	DB    *sql.DB
	Clock timewindow.Clock
}

func NewAdminRepo(db *sql.DB, clock timewindow.Clock) *AdminRepo {
	return &AdminRepo{DB: db, Clock: clock}
}

// UserRow is the admin's view of a registered user.
type UserRow struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	VehicleNumber string `json:"vehicle_number"`
	Gender        string `json:"gender"`
}

// ListUsers returns every registered user.
func (r *AdminRepo) ListUsers(ctx context.Context) ([]UserRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT full_name, email, COALESCE(phone,''), COALESCE(license_number,''),
		        COALESCE(vehicle_number,''), COALESCE(gender,'')
		 FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]UserRow, 0)
	for rows.Next() {
		var u UserRow
		if err := rows.Scan(&u.FullName, &u.Email, &u.Phone, &u.LicenseNumber,
			&u.VehicleNumber, &u.Gender); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteUserCascade removes a user and everything hanging off them inside
// one transaction: bookings the user made, bookings other riders made on
// the user's rides, the user's rides, then the user row.  If any step
// fails, nothing is deleted.
func (r *AdminRepo) DeleteUserCascade(ctx context.Context, email string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var userID uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email=?", email).Scan(&userID)
	if err == sql.ErrNoRows {
		return denied(DeniedNotFound)
	}
	if err != nil {
		return err
	}

	steps := []string{
		"DELETE FROM bookings WHERE user_id = ?",
		"DELETE FROM bookings WHERE ride_id IN (SELECT id FROM rides WHERE user_id = ?)",
		"DELETE FROM rides WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AdminRideRow is one ride in the admin ride reports.
type AdminRideRow struct {
	ID             uint64  `json:"id"`
	DriverName     string  `json:"driver_name"`
	StartingPoint  string  `json:"starting_point"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	AvailableSeats int     `json:"available_seats"`
	Price          float64 `json:"price"`
}

// upcomingWindow bounds the admin upcoming-rides report.
const upcomingWindow = 7 * 24 * time.Hour

// ListUpcoming returns rides departing within the next seven days,
// optionally narrowed to a specific date (YYYY-MM-DD) or driver email.
func (r *AdminRepo) ListUpcoming(ctx context.Context, dateFilter, emailFilter string) ([]AdminRideRow, error) {
	now := r.Clock.Now()
	query := `SELECT r.id, u.full_name, r.starting_point, r.destination,
	                 r.ride_date, r.ride_time, r.available_seats, r.price
	          FROM rides r
	          JOIN users u ON r.user_id = u.id
	          WHERE TIMESTAMP(r.ride_date, r.ride_time) > ?
	            AND TIMESTAMP(r.ride_date, r.ride_time) <= ?`
	args := []interface{}{now, now.Add(upcomingWindow)}
	if dateFilter != "" {
		query += " AND r.ride_date = ?"
		args = append(args, dateFilter)
	}
	if emailFilter != "" {
		query += " AND u.email = ?"
		args = append(args, emailFilter)
	}
	return r.listRides(ctx, query, args...)
}

// ListPrevious returns rides that have already departed, with the same
// optional filters as ListUpcoming.
func (r *AdminRepo) ListPrevious(ctx context.Context, dateFilter, emailFilter string) ([]AdminRideRow, error) {
	query := `SELECT r.id, u.full_name, r.starting_point, r.destination,
	                 r.ride_date, r.ride_time, r.available_seats, r.price
	          FROM rides r
	          JOIN users u ON r.user_id = u.id
	          WHERE TIMESTAMP(r.ride_date, r.ride_time) <= ?`
	args := []interface{}{r.Clock.Now()}
	if dateFilter != "" {
		query += " AND r.ride_date = ?"
		args = append(args, dateFilter)
	}
	if emailFilter != "" {
		query += " AND u.email = ?"
		args = append(args, emailFilter)
	}
	return r.listRides(ctx, query, args...)
}

func (r *AdminRepo) listRides(ctx context.Context, query string, args ...interface{}) ([]AdminRideRow, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminRideRow, 0)
	for rows.Next() {
		var a AdminRideRow
		var date time.Time
		var timeStr string
		if err := rows.Scan(&a.ID, &a.DriverName, &a.StartingPoint, &a.Destination,
			&date, &timeStr, &a.AvailableSeats, &a.Price); err != nil {
			return nil, err
		}
		a.Date = ymd(date)
		a.Time = hhmm(timeStr)
		out = append(out, a)
	}
	return out, rows.Err()
}

// RiderRow identifies one rider who booked a ride.
type RiderRow struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RidersForRide lists the users who have booked the given ride, in any
// status.
func (r *AdminRepo) RidersForRide(ctx context.Context, rideID uint64) ([]RiderRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.full_name, u.email
		 FROM bookings b
		 JOIN users u ON b.user_id = u.id
		 WHERE b.ride_id = ?`,
		rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RiderRow, 0)
	for rows.Next() {
		var rr RiderRow
		if err := rows.Scan(&rr.FullName, &rr.Email); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

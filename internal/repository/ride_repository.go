package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

// RideRepo owns create/update/delete of ride records and the ride list
// projections.  Every time-window comparison binds the injected clock's
// "now" into the query instead of relying on the database clock, so tests
// can steer time.  Departure instants live in the database as separate
// ride_date and ride_time columns and are compared through
// TIMESTAMP(ride_date, ride_time).
type RideRepo struct {
	DB    *sql.DB
	Clock timewindow.Clock
}

func NewRideRepo(db *sql.DB, clock timewindow.Clock) *RideRepo {
	return &RideRepo{DB: db, Clock: clock}
}

// hhmm truncates a TIME column value to HH:MM for responses.
func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// ymd formats a DATE column value for responses.
func ymd(t time.Time) string { return t.Format("2006-01-02") }

// Create inserts a new ride owned by ride.UserID and fills in the
// generated ID.  Field validation and the owner profile gate happen before
// this call.
func (r *RideRepo) Create(ctx context.Context, ride *model.Ride) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO rides (user_id, starting_point, destination, ride_date, ride_time,
		                    available_seats, price, ac, pets_allowed)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		ride.UserID, ride.StartingPoint, ride.Destination,
		ymd(ride.RideDate), ride.RideTime.Format("15:04:05"),
		ride.AvailableSeats, ride.Price, ride.AC, ride.PetsAllowed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ride.ID = uint64(id)
	return nil
}

// Update applies new field values to a ride.  The guard is on the *stored*
// departure: a ride that has already departed can never be edited, even to
// a future departure.  Ownership and the time window are enforced by the
// conditional UPDATE; zero affected rows is classified into a denial cause
// for logging while callers see only ErrDenied.
func (r *RideRepo) Update(ctx context.Context, ride model.Ride) error {
	now := r.Clock.Now()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rides
		 SET starting_point=?, destination=?, ride_date=?, ride_time=?,
		     available_seats=?, price=?, ac=?, pets_allowed=?
		 WHERE id=? AND user_id=? AND TIMESTAMP(ride_date, ride_time) > ?`,
		ride.StartingPoint, ride.Destination, ymd(ride.RideDate),
		ride.RideTime.Format("15:04:05"), ride.AvailableSeats, ride.Price,
		ride.AC, ride.PetsAllowed,
		ride.ID, ride.UserID, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.classifyDenial(ctx, ride.ID, ride.UserID, now, true)
	}
	return nil
}

// Delete removes a ride owned by ownerID.  Drivers may cancel a ride at
// any time, past or future, so there is no departure guard here.  The
// asymmetry with rider-side booking cancellation is intentional.
func (r *RideRepo) Delete(ctx context.Context, rideID, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM rides WHERE id=? AND user_id=?", rideID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.classifyDenial(ctx, rideID, ownerID, r.Clock.Now(), false)
	}
	return nil
}

// classifyDenial resolves why a conditional ride mutation matched zero
// rows.  The distinction is internal only; every cause unwraps to
// ErrDenied.
func (r *RideRepo) classifyDenial(ctx context.Context, rideID, ownerID uint64, now time.Time, checkExpiry bool) error {
	var actualOwner uint64
	var dep time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, TIMESTAMP(ride_date, ride_time) FROM rides WHERE id=?",
		rideID).Scan(&actualOwner, &dep)
	if err == sql.ErrNoRows {
		return denied(DeniedNotFound)
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return denied(DeniedWrongOwner)
	}
	if checkExpiry && !timewindow.IsFuture(dep, now) {
		return denied(DeniedExpired)
	}
	return denied(DeniedNotFound)
}

// PublishedRide is the owner's view of one of their upcoming rides,
// including how many booking requests are still waiting on a decision.
type PublishedRide struct {
	ID              uint64  `json:"id"`
	StartingPoint   string  `json:"starting_point"`
	Destination     string  `json:"destination"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	AvailableSeats  int     `json:"available_seats"`
	Price           float64 `json:"price"`
	AC              string  `json:"ac"`
	PetsAllowed     string  `json:"pets_allowed"`
	Phone           string  `json:"phone"`
	Gender          string  `json:"gender"`
	PendingRequests int     `json:"pending_requests"`
}

// ListPublished returns the caller's rides that have not yet departed,
// newest departure last.
func (r *RideRepo) ListPublished(ctx context.Context, email string) ([]PublishedRide, error) {
	now := r.Clock.Now()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.starting_point, r.destination, r.ride_date, r.ride_time,
		        r.available_seats, r.price, r.ac, r.pets_allowed,
		        COALESCE(u.phone,''), COALESCE(u.gender,''),
		        (SELECT COUNT(*) FROM bookings b
		          WHERE b.ride_id = r.id AND b.status = 'pending') AS pending_requests
		 FROM rides r
		 JOIN users u ON r.user_id = u.id
		 WHERE u.email = ?
		   AND TIMESTAMP(r.ride_date, r.ride_time) > ?
		 ORDER BY TIMESTAMP(r.ride_date, r.ride_time)`,
		email, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PublishedRide, 0)
	for rows.Next() {
		var p PublishedRide
		var date time.Time
		var timeStr string
		if err := rows.Scan(&p.ID, &p.StartingPoint, &p.Destination, &date, &timeStr,
			&p.AvailableSeats, &p.Price, &p.AC, &p.PetsAllowed,
			&p.Phone, &p.Gender, &p.PendingRequests); err != nil {
			return nil, err
		}
		p.Date = ymd(date)
		p.Time = hhmm(timeStr)
		out = append(out, p)
	}
	return out, rows.Err()
}

// RideOffer is a bookable ride as shown to riders browsing, with enough
// driver detail to decide.
type RideOffer struct {
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
	DriverEmail    string  `json:"driver_email,omitempty"`
	Phone          string  `json:"phone"`
	Gender         string  `json:"gender"`
	RemainingSeats int     `json:"remaining_seats"`
}

// ListAvailable returns future rides not owned by the excluded user that
// still have seats left after accepted bookings are subtracted.
func (r *RideRepo) ListAvailable(ctx context.Context, excludeEmail string) ([]RideOffer, error) {
	return r.listOffers(ctx,
		`SELECT r.id, r.starting_point, r.destination, r.ride_date, r.ride_time,
		        r.available_seats, r.price, r.ac, r.pets_allowed,
		        u.full_name, '', COALESCE(u.phone,''), COALESCE(u.gender,''),
		        (r.available_seats - COALESCE((
		            SELECT SUM(b.seats_requested) FROM bookings b
		             WHERE b.ride_id = r.id AND b.status = 'accepted'), 0)) AS remaining_seats
		 FROM rides r
		 JOIN users u ON r.user_id = u.id
		 WHERE u.email != ?
		   AND TIMESTAMP(r.ride_date, r.ride_time) > ?
		 HAVING remaining_seats > 0`,
		excludeEmail, r.Clock.Now())
}

// ListAll returns every future ride with remaining capacity, regardless of
// owner.  Used by the open browse view; includes the driver's email.
func (r *RideRepo) ListAll(ctx context.Context) ([]RideOffer, error) {
	return r.listOffers(ctx,
		`SELECT r.id, r.starting_point, r.destination, r.ride_date, r.ride_time,
		        r.available_seats, r.price, r.ac, r.pets_allowed,
		        u.full_name, u.email, COALESCE(u.phone,''), COALESCE(u.gender,''),
		        (r.available_seats - COALESCE((
		            SELECT SUM(b.seats_requested) FROM bookings b
		             WHERE b.ride_id = r.id AND b.status = 'accepted'), 0)) AS remaining_seats
		 FROM rides r
		 JOIN users u ON r.user_id = u.id
		 WHERE TIMESTAMP(r.ride_date, r.ride_time) > ?
		 HAVING remaining_seats > 0`,
		r.Clock.Now())
}

func (r *RideRepo) listOffers(ctx context.Context, query string, args ...interface{}) ([]RideOffer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RideOffer, 0)
	for rows.Next() {
		var o RideOffer
		var date time.Time
		var timeStr string
		if err := rows.Scan(&o.ID, &o.StartingPoint, &o.Destination, &date, &timeStr,
			&o.AvailableSeats, &o.Price, &o.AC, &o.PetsAllowed,
			&o.DriverName, &o.DriverEmail, &o.Phone, &o.Gender,
			&o.RemainingSeats); err != nil {
			return nil, err
		}
		o.Date = ymd(date)
		o.Time = hhmm(timeStr)
		out = append(out, o)
	}
	return out, rows.Err()
}

// BookingLine is one booking row inside an owner's ride detail.
type BookingLine struct {
	BookingID      uint64 `json:"booking_id"`
	SeatsRequested int    `json:"seats_requested"`
	Status         string `json:"status"`
	RiderName      string `json:"rider_name"`
	RiderGender    string `json:"rider_gender"`
	RiderPhone     string `json:"rider_phone"`
}

// RideDetail is an owner's view of one upcoming ride together with the
// booking requests made against it.
type RideDetail struct {
	ID             uint64        `json:"id"`
	StartingPoint  string        `json:"starting_point"`
	Destination    string        `json:"destination"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	AvailableSeats int           `json:"available_seats"`
	Price          float64       `json:"price"`
	AC             string        `json:"ac"`
	PetsAllowed    string        `json:"pets_allowed"`
	Bookings       []BookingLine `json:"bookings"`
}

// BookingsForOwner returns the ride detail with its bookings, but only to
// the ride's owner and only while the ride is still in the future.  Any
// failed guard collapses to a denial.
func (r *RideRepo) BookingsForOwner(ctx context.Context, rideID, ownerID uint64) (*RideDetail, error) {
	now := r.Clock.Now()
	var det RideDetail
	var date time.Time
	var timeStr string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, starting_point, destination, ride_date, ride_time,
		        available_seats, price, ac, pets_allowed
		 FROM rides
		 WHERE id = ? AND user_id = ?
		   AND TIMESTAMP(ride_date, ride_time) > ?`,
		rideID, ownerID, now).Scan(&det.ID, &det.StartingPoint, &det.Destination,
		&date, &timeStr, &det.AvailableSeats, &det.Price, &det.AC, &det.PetsAllowed)
	if err == sql.ErrNoRows {
		return nil, r.classifyDenial(ctx, rideID, ownerID, now, true)
	}
	if err != nil {
		return nil, err
	}
	det.Date = ymd(date)
	det.Time = hhmm(timeStr)
	det.Bookings = []BookingLine{}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.seats_requested, b.status,
		        u.full_name, COALESCE(u.gender,''), COALESCE(u.phone,'')
		 FROM bookings b
		 JOIN users u ON b.user_id = u.id
		 WHERE b.ride_id = ?
		 ORDER BY b.created_at`,
		rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l BookingLine
		if err := rows.Scan(&l.BookingID, &l.SeatsRequested, &l.Status,
			&l.RiderName, &l.RiderGender, &l.RiderPhone); err != nil {
			return nil, err
		}
		det.Bookings = append(det.Bookings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// PastBookingLine summarizes one booking on a past ride.
type PastBookingLine struct {
	RiderName      string `json:"rider_name"`
	RiderPhone     string `json:"rider_phone"`
	SeatsRequested int    `json:"seats_requested"`
	Status         string `json:"status"`
}

// PastPublishedRide is a departed ride of the caller's with the bookings
// it accumulated.
type PastPublishedRide struct {
	ID             uint64            `json:"id"`
	StartingPoint  string            `json:"starting_point"`
	Destination    string            `json:"destination"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	AvailableSeats int               `json:"available_seats"`
	Bookings       []PastBookingLine `json:"bookings"`
}

// ListPastPublished returns the caller's departed rides, most recent
// first, each with its booking summaries.
func (r *RideRepo) ListPastPublished(ctx context.Context, email string) ([]PastPublishedRide, error) {
	now := r.Clock.Now()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.starting_point, r.destination, r.ride_date, r.ride_time, r.available_seats
		 FROM rides r
		 JOIN users u ON r.user_id = u.id
		 WHERE u.email = ?
		   AND TIMESTAMP(r.ride_date, r.ride_time) <= ?
		 ORDER BY TIMESTAMP(r.ride_date, r.ride_time) DESC`,
		email, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PastPublishedRide, 0)
	index := make(map[uint64]int)
	ids := make([]interface{}, 0)
	for rows.Next() {
		var p PastPublishedRide
		var date time.Time
		var timeStr string
		if err := rows.Scan(&p.ID, &p.StartingPoint, &p.Destination, &date, &timeStr, &p.AvailableSeats); err != nil {
			return nil, err
		}
		p.Date = ymd(date)
		p.Time = hhmm(timeStr)
		p.Bookings = []PastBookingLine{}
		index[p.ID] = len(out)
		ids = append(ids, p.ID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	placeholders := ""
	for i := range ids {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
	}
	brows, err := r.DB.QueryContext(ctx,
		`SELECT b.ride_id, u.full_name, COALESCE(u.phone,''), b.seats_requested, b.status
		 FROM bookings b
		 JOIN users u ON b.user_id = u.id
		 WHERE b.ride_id IN (`+placeholders+`)
		 ORDER BY b.ride_id, b.created_at`,
		ids...)
	if err != nil {
		return nil, err
	}
	defer brows.Close()
	for brows.Next() {
		var rideID uint64
		var l PastBookingLine
		if err := brows.Scan(&rideID, &l.RiderName, &l.RiderPhone, &l.SeatsRequested, &l.Status); err != nil {
			return nil, err
		}
		if i, ok := index[rideID]; ok {
			out[i].Bookings = append(out[i].Bookings, l)
		}
	}
	return out, brows.Err()
}

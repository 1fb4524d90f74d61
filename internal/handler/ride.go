package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/ledger"
	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/repository"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

// RideHandler bundles dependencies for publishing, editing and browsing
// rides.
type RideHandler struct {
	Users *repository.UserRepo
	Rides *repository.RideRepo
	Clock timewindow.Clock
}

func NewRideHandler(u *repository.UserRepo, r *repository.RideRepo, clock timewindow.Clock) *RideHandler {
	return &RideHandler{Users: u, Rides: r, Clock: clock}
}

// rideReq is the shared body of publish and edit.
type rideReq struct {
	Email          string   `json:"email"`
	StartingPoint  string   `json:"startingPoint"`
	Destination    string   `json:"destination"`
	Date           string   `json:"date"` // YYYY-MM-DD
	Time           string   `json:"time"` // HH:MM
	AvailableSeats int      `json:"availableSeats"`
	Price          *float64 `json:"price"` // pointer so a zero price still counts as provided
	AC             string   `json:"ac"`
	PetsAllowed    string   `json:"pets_allowed"`
}

const rideFieldsRequired = "All fields (email, starting point, destination, date, time, available seats, price, AC, pets allowed) are required"

// parseRideDateTime parses the date and time body fields into the two
// column values.
func parseRideDateTime(date, clock string) (time.Time, time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return d, t, nil
		}
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unrecognized time value %q", clock)
}

// validateRideReq runs the shared field checks.  A false result means the
// response has already been written.
func (h *RideHandler) validateRideReq(c echo.Context, req rideReq, pastMsg string) (time.Time, time.Time, bool) {
	if req.Email == "" || req.StartingPoint == "" || req.Destination == "" ||
		req.Date == "" || req.Time == "" || req.AvailableSeats == 0 ||
		req.Price == nil || req.AC == "" || req.PetsAllowed == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": rideFieldsRequired})
		return time.Time{}, time.Time{}, false
	}
	if req.AvailableSeats > ledger.MaxCapacity {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "Maximum available seats is 2"})
		return time.Time{}, time.Time{}, false
	}
	if !ledger.ValidCapacity(req.AvailableSeats) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": rideFieldsRequired})
		return time.Time{}, time.Time{}, false
	}
	date, tod, err := parseRideDateTime(req.Date, req.Time)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date or time format"})
		return time.Time{}, time.Time{}, false
	}
	if !timewindow.IsFuture(timewindow.Combine(date, tod), h.Clock.Now()) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": pastMsg})
		return time.Time{}, time.Time{}, false
	}
	return date, tod, true
}

// Publish creates a new ride for the caller.  The driver's profile must be
// complete: phone, gender, licence and vehicle on file.
func (h *RideHandler) Publish(c echo.Context) error {
	var req rideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": rideFieldsRequired})
	}
	date, tod, ok := h.validateRideReq(c, req, "Cannot publish a ride with a past date and time")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}
	if u.Phone == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Mobile number is required to publish a ride"})
	}
	if u.Gender == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "You must provide your gender in your profile to publish a ride"})
	}
	if !u.CanPublish() {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "You must provide a valid license number and vehicle number in your profile to publish a ride"})
	}

	ride := model.Ride{
		UserID:         u.ID,
		StartingPoint:  req.StartingPoint,
		Destination:    req.Destination,
		RideDate:       date,
		RideTime:       tod,
		AvailableSeats: req.AvailableSeats,
		Price:          *req.Price,
		AC:             req.AC,
		PetsAllowed:    req.PetsAllowed,
	}
	if err := h.Rides.Create(ctx, &ride); err != nil {
		log.Printf("publish ride: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error publishing ride"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Ride published successfully",
		"rideId":  ride.ID,
	})
}

// ListMine returns the caller's upcoming published rides with pending
// request counts.
func (h *RideHandler) ListMine(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Rides.ListPublished(ctx, email)
	if err != nil {
		log.Printf("list published rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching rides"})
	}
	return c.JSON(http.StatusOK, rides)
}

// RideBookings returns one upcoming ride of the caller's together with the
// booking requests made against it.
func (h *RideHandler) RideBookings(c echo.Context) error {
	rideID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid ride ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, c.QueryParam("email"))
	if !ok {
		return nil
	}
	detail, err := h.Rides.BookingsForOwner(ctx, rideID, u.ID)
	if err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Ride not found, expired, or you do not have permission to view it"})
		}
		log.Printf("ride bookings: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching ride bookings"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Update edits a ride.  Only the owner may edit, and only while the stored
// departure is still in the future.
func (h *RideHandler) Update(c echo.Context) error {
	rideID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid ride ID"})
	}
	var req rideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": rideFieldsRequired})
	}
	date, tod, ok := h.validateRideReq(c, req, "Cannot edit ride to a past date and time")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}
	ride := model.Ride{
		ID:             rideID,
		UserID:         u.ID,
		StartingPoint:  req.StartingPoint,
		Destination:    req.Destination,
		RideDate:       date,
		RideTime:       tod,
		AvailableSeats: req.AvailableSeats,
		Price:          *req.Price,
		AC:             req.AC,
		PetsAllowed:    req.PetsAllowed,
	}
	if err := h.Rides.Update(ctx, ride); err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Ride not found, expired, or you do not have permission to edit it"})
		}
		log.Printf("edit ride: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error editing ride"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ride edited successfully"})
}

// Delete removes a ride owned by the caller.  Past rides can be deleted
// too.
func (h *RideHandler) Delete(c echo.Context) error {
	rideID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid ride ID"})
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}
	if err := h.Rides.Delete(ctx, rideID, u.ID); err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Ride not found or you do not have permission to delete it"})
		}
		log.Printf("delete ride: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting ride"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ride deleted successfully"})
}

// Available returns future rides of other drivers that still have seats
// left.
func (h *RideHandler) Available(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Rides.ListAvailable(ctx, email)
	if err != nil {
		log.Printf("available rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching available rides"})
	}
	return c.JSON(http.StatusOK, rides)
}

// All returns every future ride with remaining capacity, driver email
// included.
func (h *RideHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Rides.ListAll(ctx)
	if err != nil {
		log.Printf("all rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching rides"})
	}
	return c.JSON(http.StatusOK, rides)
}

// PastPublished returns the caller's departed rides with their booking
// summaries.
func (h *RideHandler) PastPublished(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Rides.ListPastPublished(ctx, email)
	if err != nil {
		log.Printf("past published rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, rides)
}

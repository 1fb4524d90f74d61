package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/queue"
	"github.com/iliyamo/share-ride/internal/repository"
	queuepub "github.com/iliyamo/share-ride/internal/service"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

// BookingHandler bundles dependencies for requesting, deciding and
// cancelling bookings.
type BookingHandler struct {
	Users    *repository.UserRepo
	Bookings *repository.BookingRepo
	Clock    timewindow.Clock
}

func NewBookingHandler(u *repository.UserRepo, b *repository.BookingRepo, clock timewindow.Clock) *BookingHandler {
	return &BookingHandler{Users: u, Bookings: b, Clock: clock}
}

type bookReq struct {
	Email          string `json:"email"`
	RideID         uint64 `json:"rideId"`
	SeatsRequested int    `json:"seatsRequested"`
}

type cancelReq struct {
	Email  string `json:"email"`
	RideID uint64 `json:"rideId"`
}

type decideReq struct {
	Email string `json:"email"`
}

// Book creates a pending booking request.  The rider must have a phone
// number on file.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email, ride ID, and valid seats requested are required"})
	}
	if req.Email == "" || req.RideID == 0 || req.SeatsRequested < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email, ride ID, and valid seats requested are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}
	if u.Phone == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Mobile number is required to book a ride"})
	}

	_, err := h.Bookings.Request(ctx, u.ID, req.RideID, req.SeatsRequested)
	if err != nil {
		switch {
		case err == repository.ErrDuplicateBooking:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already requested to book this ride"})
		case err == repository.ErrNotEnoughSeats:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Not enough seats available"})
		case errorsIsDenied(err):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Ride not found, expired, or no seats available"})
		}
		log.Printf("book ride: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error booking ride"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Ride booking requested successfully, awaiting driver approval"})
}

// Accept lets the ride owner accept a pending booking.  A decided event is
// published in the background; a broker outage never fails the request.
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.decide(c, true)
}

// Reject lets the ride owner reject a pending booking.
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *BookingHandler) decide(c echo.Context, accept bool) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking ID"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}

	var dec *repository.DecidedBooking
	if accept {
		dec, err = h.Bookings.Accept(ctx, bookingID, u.ID)
	} else {
		dec, err = h.Bookings.Reject(ctx, bookingID, u.ID)
	}
	if err != nil {
		switch {
		case err == repository.ErrNotEnoughSeats:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Not enough seats available"})
		case errorsIsDenied(err):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found, already processed, expired, or you do not have permission"})
		}
		if accept {
			log.Printf("accept booking: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error accepting booking"})
		}
		log.Printf("reject booking: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error rejecting booking"})
	}

	go h.publishDecision(dec)

	if accept {
		return c.JSON(http.StatusOK, echo.Map{"message": "Booking accepted successfully"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking rejected successfully"})
}

// publishDecision emits the decided event on its own context so a slow
// broker cannot hold the HTTP response.
func (h *BookingHandler) publishDecision(dec *repository.DecidedBooking) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	_ = queuepub.PublishBookingDecided(ctx, queue.BookingDecidedEvent{
		BookingID:      dec.BookingID,
		RideID:         dec.RideID,
		RiderID:        dec.RiderID,
		RiderEmail:     dec.RiderEmail,
		SeatsRequested: dec.SeatsRequested,
		StartingPoint:  dec.StartingPoint,
		Destination:    dec.Destination,
		DepartureAt:    dec.DepartureAt.Format("2006-01-02 15:04"),
		Status:         string(dec.Status),
		DecidedAt:      h.Clock.Now().Format("2006-01-02 15:04:05"),
	})
}

// Cancel deletes the caller's active booking on a ride, allowed until one
// hour before departure.
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and ride ID are required"})
	}
	if req.Email == "" || req.RideID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and ride ID are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, ok := resolveUser(c, ctx, h.Users, req.Email)
	if !ok {
		return nil
	}
	if err := h.Bookings.Cancel(ctx, u.ID, req.RideID); err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found, not in a cancellable state, or you do not have permission to cancel it"})
		}
		log.Printf("cancel booking: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error canceling booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ride booking canceled successfully"})
}

// BookedRides returns the caller's bookings on rides that have not yet
// departed.
func (h *BookingHandler) BookedRides(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Bookings.ListForRider(ctx, email)
	if err != nil {
		log.Printf("booked rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching booked rides"})
	}
	return c.JSON(http.StatusOK, rides)
}

// PastBookedRides returns the caller's bookings on departed rides.
func (h *BookingHandler) PastBookedRides(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Bookings.ListPastForRider(ctx, email)
	if err != nil {
		log.Printf("past booked rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, rides)
}

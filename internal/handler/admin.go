package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/config"
	"github.com/iliyamo/share-ride/internal/repository"
	"github.com/iliyamo/share-ride/internal/utils"
)

// AdminHandler bundles dependencies for the admin panel endpoints.  All
// routes except Login sit behind the admin JWT middleware.
type AdminHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Admins *repository.AdminRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, a *repository.AdminRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Admins: a}
}

type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies admin credentials and issues a short-lived JWT.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username and password are required"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Users.GetAdminByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
		}
		log.Printf("admin login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	tok, err := utils.NewAdminToken(h.Cfg.AdminSecret, a.ID, a.Username, h.Cfg.AdminTokenTTL)
	if err != nil {
		log.Printf("admin token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "token": tok.Token})
}

// ListUsers lists every registered user.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Admins.ListUsers(ctx)
	if err != nil {
		log.Printf("admin list users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a user and all their rides and bookings in one
// transaction.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Admins.DeleteUserCascade(ctx, email); err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Printf("admin delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// UpcomingRides lists rides departing within the next seven days, with
// optional date and driver email filters.
func (h *AdminHandler) UpcomingRides(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Admins.ListUpcoming(ctx, c.QueryParam("date"), c.QueryParam("email"))
	if err != nil {
		log.Printf("admin upcoming rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, rides)
}

// PreviousRides lists rides that have already departed, same filters as
// UpcomingRides.
func (h *AdminHandler) PreviousRides(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rides, err := h.Admins.ListPrevious(ctx, c.QueryParam("date"), c.QueryParam("email"))
	if err != nil {
		log.Printf("admin previous rides: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, rides)
}

// Riders lists the users who booked a given ride.
func (h *AdminHandler) Riders(c echo.Context) error {
	rideID, err := strconv.ParseUint(c.Param("rideId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid ride ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	riders, err := h.Admins.RidersForRide(ctx, rideID)
	if err != nil {
		log.Printf("admin ride riders: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, riders)
}

package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/config"
	"github.com/iliyamo/share-ride/internal/repository"
	"github.com/iliyamo/share-ride/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and profile
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateReq struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	VehicleNumber string `json:"vehicleNumber"`
	Gender        string `json:"gender"`
}

type profileResp struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	VehicleNumber string `json:"vehicle_number"`
	Gender        string `json:"gender"`
}

// Register creates a new account.  Full name, email, password and a valid
// mobile number are all required up front.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Full name, email, password, and mobile number are required"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Full name, email, password, and mobile number are required"})
	}
	if !utils.ValidMobile(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Mobile number must be a 10-digit number starting with 6, 7, 8, or 9"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	_, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, req.Phone, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		}
		log.Printf("register: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error registering user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful! You can now log in.",
		"email":   req.Email,
	})
}

// Login verifies the email/password pair.  Unknown email and wrong
// password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
		}
		log.Printf("login: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome back, " + u.FullName + "!",
		"name":    u.FullName,
	})
}

// Profile returns the profile fields for the user identified by the email
// query parameter.
func (h *AuthHandler) Profile(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Printf("profile: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching profile"})
	}
	return c.JSON(http.StatusOK, profileResp{
		FullName:      u.FullName,
		Email:         u.Email,
		Phone:         u.Phone,
		LicenseNumber: u.LicenseNumber,
		VehicleNumber: u.VehicleNumber,
		Gender:        u.Gender,
	})
}

// UpdateProfile overwrites the mutable profile fields.  Phone, vehicle and
// licence values must match their formats when present.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
	}
	if req.Phone != "" && !utils.ValidMobile(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Mobile number must be a 10-digit number starting with 6, 7, 8, or 9"})
	}
	if req.VehicleNumber != "" && !utils.ValidVehicle(req.VehicleNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Vehicle number must follow the format: SS DD CC NNNN (e.g., DL 01 AB 1234)"})
	}
	if req.LicenseNumber != "" && !utils.ValidLicense(req.LicenseNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "License number must follow the format: SS-RTO/YYYY/NNNNNNN (e.g., DL-04/2011/0149646)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err := h.Users.UpdateProfile(ctx, req.Email, req.FullName, req.Phone, req.LicenseNumber, req.VehicleNumber, req.Gender)
	if err != nil {
		if errorsIsDenied(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No user found with this email"})
		}
		log.Printf("profile update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/config"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

// Validation runs before any repository call, so these handlers can be
// constructed without a database.

var testClock = timewindow.FixedClock{T: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

func perform(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	msg, _ := out["message"].(string)
	return msg
}

func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(config.Config{BcryptCost: 4}, nil)

	rec := perform(t, h.Register, http.MethodPost, "/register", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: code %d, want 400", rec.Code)
	}
	if got := message(t, rec); got != "Full name, email, password, and mobile number are required" {
		t.Errorf("unexpected message %q", got)
	}

	rec = perform(t, h.Register, http.MethodPost, "/register",
		`{"fullName":"A","email":"a@b.c","password":"x","phone":"12345"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad phone: code %d, want 400", rec.Code)
	}
	if got := message(t, rec); !strings.HasPrefix(got, "Mobile number must be") {
		t.Errorf("unexpected message %q", got)
	}
}

func TestLoginValidation(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil)
	rec := perform(t, h.Login, http.MethodPost, "/login", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code %d, want 400", rec.Code)
	}
	if got := message(t, rec); got != "Email and password are required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestProfileRequiresEmail(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil)
	rec := perform(t, h.Profile, http.MethodGet, "/profile", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code %d, want 400", rec.Code)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil)

	rec := perform(t, h.UpdateProfile, http.MethodPost, "/profile/update", `{"fullName":"A"}`)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Email is required" {
		t.Fatalf("missing email: code %d, message %q", rec.Code, message(t, rec))
	}

	rec = perform(t, h.UpdateProfile, http.MethodPost, "/profile/update",
		`{"email":"a@b.c","vehicleNumber":"bad-plate"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad plate: code %d, want 400", rec.Code)
	}
	if got := message(t, rec); !strings.HasPrefix(got, "Vehicle number must follow") {
		t.Errorf("unexpected message %q", got)
	}

	rec = perform(t, h.UpdateProfile, http.MethodPost, "/profile/update",
		`{"email":"a@b.c","licenseNumber":"DL-0420110149646"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad licence: code %d, want 400", rec.Code)
	}
}

func TestPublishValidation(t *testing.T) {
	h := NewRideHandler(nil, nil, testClock)

	rec := perform(t, h.Publish, http.MethodPost, "/publish-ride", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: code %d, want 400", rec.Code)
	}
	if got := message(t, rec); !strings.HasPrefix(got, "All fields") {
		t.Errorf("unexpected message %q", got)
	}

	body := `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"2025-06-20","time":"10:00","availableSeats":3,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec = perform(t, h.Publish, http.MethodPost, "/publish-ride", body)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Maximum available seats is 2" {
		t.Fatalf("too many seats: code %d, message %q", rec.Code, message(t, rec))
	}

	body = `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"2025-06-20","time":"10:00","availableSeats":-1,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec = perform(t, h.Publish, http.MethodPost, "/publish-ride", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative seats: code %d, want 400", rec.Code)
	}

	body = `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"2025-06-10","time":"10:00","availableSeats":2,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec = perform(t, h.Publish, http.MethodPost, "/publish-ride", body)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Cannot publish a ride with a past date and time" {
		t.Fatalf("past departure: code %d, message %q", rec.Code, message(t, rec))
	}

	// Departing exactly at the fixed "now" counts as past.
	body = `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"2025-06-15","time":"12:00","availableSeats":2,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec = perform(t, h.Publish, http.MethodPost, "/publish-ride", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("boundary departure: code %d, want 400", rec.Code)
	}

	body = `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"20-06-2025","time":"10:00","availableSeats":2,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec = perform(t, h.Publish, http.MethodPost, "/publish-ride", body)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Invalid date or time format" {
		t.Fatalf("bad date: code %d, message %q", rec.Code, message(t, rec))
	}
}

func TestUpdateRideValidation(t *testing.T) {
	h := NewRideHandler(nil, nil, testClock)

	body := `{"email":"a@b.c","startingPoint":"X","destination":"Y","date":"2025-06-10","time":"10:00","availableSeats":2,"price":100,"ac":"yes","pets_allowed":"no"}`
	rec := perform(t, h.Update, http.MethodPut, "/rides/5", body, "id", "5")
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Cannot edit ride to a past date and time" {
		t.Fatalf("past edit: code %d, message %q", rec.Code, message(t, rec))
	}

	rec = perform(t, h.Update, http.MethodPut, "/rides/abc", body, "id", "abc")
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Invalid ride ID" {
		t.Fatalf("bad id: code %d, message %q", rec.Code, message(t, rec))
	}
}

func TestBookValidation(t *testing.T) {
	h := NewBookingHandler(nil, nil, testClock)

	for _, body := range []string{
		`{"rideId":1,"seatsRequested":1}`,
		`{"email":"a@b.c","seatsRequested":1}`,
		`{"email":"a@b.c","rideId":1,"seatsRequested":0}`,
	} {
		rec := perform(t, h.Book, http.MethodPost, "/book-ride", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: code %d, want 400", body, rec.Code)
		}
	}
}

func TestDecideValidation(t *testing.T) {
	h := NewBookingHandler(nil, nil, testClock)

	rec := perform(t, h.Accept, http.MethodPut, "/bookings/abc/accept", `{"email":"a@b.c"}`, "id", "abc")
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Invalid booking ID" {
		t.Fatalf("bad id: code %d, message %q", rec.Code, message(t, rec))
	}

	rec = perform(t, h.Reject, http.MethodPut, "/bookings/3/reject", `{}`, "id", "3")
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Email is required" {
		t.Fatalf("missing email: code %d, message %q", rec.Code, message(t, rec))
	}
}

func TestCancelValidation(t *testing.T) {
	h := NewBookingHandler(nil, nil, testClock)
	rec := perform(t, h.Cancel, http.MethodDelete, "/bookings", `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Email and ride ID are required" {
		t.Fatalf("code %d, message %q", rec.Code, message(t, rec))
	}
}

func TestAdminLoginValidation(t *testing.T) {
	h := NewAdminHandler(config.Config{}, nil, nil)
	rec := perform(t, h.Login, http.MethodPost, "/admin/login", `{"username":"root"}`)
	if rec.Code != http.StatusBadRequest || message(t, rec) != "Username and password are required" {
		t.Fatalf("code %d, message %q", rec.Code, message(t, rec))
	}
}

func TestHealth(t *testing.T) {
	rec := perform(t, Health, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: code %d, body %q", rec.Code, rec.Body.String())
	}
}

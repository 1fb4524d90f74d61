package model

import (
	"testing"
	"time"
)

func TestCanPublish(t *testing.T) {
	full := User{Phone: "9876543210", Gender: "female", LicenseNumber: "DL-04/2011/0149646", VehicleNumber: "DL 01 AB 1234"}
	if !full.CanPublish() {
		t.Error("complete profile must be allowed to publish")
	}
	for _, missing := range []string{"phone", "gender", "license", "vehicle"} {
		u := full
		switch missing {
		case "phone":
			u.Phone = ""
		case "gender":
			u.Gender = ""
		case "license":
			u.LicenseNumber = ""
		case "vehicle":
			u.VehicleNumber = ""
		}
		if u.CanPublish() {
			t.Errorf("profile without %s must not publish", missing)
		}
	}
}

func TestRideDepartureAt(t *testing.T) {
	r := Ride{
		RideDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		RideTime: time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC),
	}
	want := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	if got := r.DepartureAt(); !got.Equal(want) {
		t.Errorf("DepartureAt = %v, want %v", got, want)
	}
}

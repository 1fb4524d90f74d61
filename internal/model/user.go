package model

import "time"

// User represents a registered account.  The email address is unique and
// is the identifier every other entity uses to reference a user.  Phone,
// gender, licence and vehicle fields start empty and are filled in through
// profile updates; publishing a ride requires all of them to be present.
//
// Fields:
//  ID            – primary key identifier.
//  FullName      – display name given at registration.
//  Email         – unique, stable identifier.
//  PasswordHash  – bcrypt hash of the password.
//  Phone         – mobile number (10 digits, starts 6-9).
//  Gender        – free-form gender string.
//  LicenseNumber – driving licence (SS-RTO/YYYY/NNNNNNN).
//  VehicleNumber – vehicle plate (SS DD CC NNNN).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type User struct {
	ID            uint64    // users.id
	FullName      string    // users.full_name
	Email         string    // users.email
	PasswordHash  string    // users.password_hash
	Phone         string    // users.phone
	Gender        string    // users.gender
	LicenseNumber string    // users.license_number
	VehicleNumber string    // users.vehicle_number
	CreatedAt     time.Time // users.created_at
	UpdatedAt     time.Time // users.updated_at
}

// CanPublish reports whether the profile carries everything a driver must
// have on file before offering a ride: phone, gender, licence and vehicle.
func (u User) CanPublish() bool {
	return u.Phone != "" && u.Gender != "" && u.LicenseNumber != "" && u.VehicleNumber != ""
}

// Admin represents a back-office account used by the admin panel.  Admins
// authenticate separately from users and never appear in ride or booking
// records.
type Admin struct {
	ID           uint64    // admins.id
	Username     string    // admins.username
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
}

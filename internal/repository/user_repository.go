package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/utils"
)

// UserRepo provides access to the users table.  It is the external
// collaborator every ride and booking operation consults to resolve an
// email into a user record.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new user with a bcrypt password hash and returns its ID.
// A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password, phone string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password_hash, phone) VALUES (?,?,?,?)",
		fullName, email, hash, phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.  sql.ErrNoRows when the
// email is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash,
		        COALESCE(phone,''), COALESCE(gender,''),
		        COALESCE(license_number,''), COALESCE(vehicle_number,''),
		        created_at, updated_at
		 FROM users WHERE email=? LIMIT 1`,
		email).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash,
		&u.Phone, &u.Gender, &u.LicenseNumber, &u.VehicleNumber,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateProfile overwrites the mutable profile fields of the user with the
// given email.  Zero affected rows means no such user.
func (r *UserRepo) UpdateProfile(ctx context.Context, email, fullName, phone, license, vehicle, gender string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name=?, phone=?, license_number=?, vehicle_number=?, gender=?
		 WHERE email=?`,
		fullName, phone, license, vehicle, gender, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return denied(DeniedNotFound)
	}
	return nil
}

// GetAdminByUsername fetches an admin account for login.  sql.ErrNoRows
// when the username is unknown.
func (r *UserRepo) GetAdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM admins WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	return a, err
}

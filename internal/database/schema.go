package database

import (
	"context"
	"database/sql"
)

// schema holds the table definitions applied at startup.  Statements are
// idempotent so repeated boots are harmless.  There is deliberately no
// unique key on bookings(user_id, ride_id): a rejected booking must not
// block the rider from requesting the same ride again, so the
// one-active-booking rule lives in the booking transaction instead.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		full_name       VARCHAR(255) NOT NULL,
		email           VARCHAR(255) NOT NULL,
		password_hash   VARCHAR(255) NOT NULL,
		phone           VARCHAR(20)  NULL,
		gender          VARCHAR(32)  NULL,
		license_number  VARCHAR(64)  NULL,
		vehicle_number  VARCHAR(32)  NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS rides (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id         BIGINT UNSIGNED NOT NULL,
		starting_point  VARCHAR(255) NOT NULL,
		destination     VARCHAR(255) NOT NULL,
		ride_date       DATE NOT NULL,
		ride_time       TIME NOT NULL,
		available_seats TINYINT UNSIGNED NOT NULL,
		price           DECIMAL(10,2) NOT NULL,
		ac              ENUM('yes','no') NOT NULL,
		pets_allowed    ENUM('yes','no') NOT NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_rides_user (user_id),
		KEY idx_rides_departure (ride_date, ride_time),
		CONSTRAINT fk_rides_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id         BIGINT UNSIGNED NOT NULL,
		ride_id         BIGINT UNSIGNED NOT NULL,
		seats_requested TINYINT UNSIGNED NOT NULL,
		status          ENUM('pending','accepted','rejected') NOT NULL DEFAULT 'pending',
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_ride (ride_id),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_ride FOREIGN KEY (ride_id) REFERENCES rides(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS admins (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admins_username (username)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the application tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

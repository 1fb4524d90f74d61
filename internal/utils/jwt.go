package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminToken is a signed JWT issued to an admin after login along with its
// expiry.  Admin tokens are short-lived and sent as a Bearer token on the
// admin endpoints.
type AdminToken struct {
	Token string
	Exp   time.Time
}

// NewAdminToken builds and signs an HS256 JWT for an admin account.  The
// claims carry the admin's ID as subject plus the username, expiry and
// issued-at.
func NewAdminToken(secret string, adminID uint64, username string, ttl time.Duration) (AdminToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":      adminID,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}

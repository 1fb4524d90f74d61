package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAdminToken(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAdminToken(secret, 7, "root", time.Hour)
	if err != nil {
		t.Fatalf("NewAdminToken: %v", err)
	}
	if until := time.Until(tok.Exp); until < 59*time.Minute || until > 61*time.Minute {
		t.Errorf("expiry %v not about an hour away", tok.Exp)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["username"] != "root" {
		t.Errorf("username claim = %v, want root", claims["username"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 7 {
		t.Errorf("sub claim = %v, want 7", claims["sub"])
	}

	if _, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

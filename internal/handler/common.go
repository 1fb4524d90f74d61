package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/model"
	"github.com/iliyamo/share-ride/internal/repository"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// errorsIsDenied reports whether err is the collapsed denial outcome.  The
// true cause stays in the logs; callers only ever see the ambiguous 404.
func errorsIsDenied(err error) bool {
	return errors.Is(err, repository.ErrDenied)
}

// resolveUser turns an email into a user record, writing the standard
// responses for a missing email or unknown user.  The bool result reports
// whether the handler should continue.
func resolveUser(c echo.Context, ctx context.Context, users *repository.UserRepo, email string) (model.User, bool) {
	if email == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"message": "Email is required"})
		return model.User{}, false
	}
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			_ = c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		} else {
			log.Printf("resolve user: %v", err)
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error checking user"})
		}
		return model.User{}, false
	}
	return u, true
}

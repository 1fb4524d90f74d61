package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window request limiter backed by Redis.  Each
// client IP gets `limit` requests per `window`; the counter key carries
// the window start so it expires on its own.  A nil client disables
// limiting.  Redis errors fail open: a broken limiter must not take the
// API down with it.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			slot := time.Now().Unix() / int64(window.Seconds())
			key := fmt.Sprintf("rl:%s:%d", c.RealIP(), slot)

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(limit) {
				c.Response().Header().Set("Retry-After",
					fmt.Sprintf("%d", int(window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "Too many requests"})
			}
			return next(c)
		}
	}
}

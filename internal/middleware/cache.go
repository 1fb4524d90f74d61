package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// bodyCapture duplicates the response body while forwarding it to the
// client so a successful response can be stored after the handler ran.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheList returns a middleware that caches successful JSON responses of
// GET endpoints in Redis for the given TTL.  The key is the route plus the
// raw query, so per-user list views stay separate.  A nil client disables
// caching entirely.  Only 200 responses are stored; everything else passes
// through untouched.
func CacheList(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := "cache:" + c.Path() + "?" + c.Request().URL.RawQuery

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(http.StatusOK)
				_, werr := c.Response().Write(body)
				return werr
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			ct := c.Response().Header().Get(echo.HeaderContentType)
			if cw.status == http.StatusOK && strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
				_ = rdb.Set(ctx, key, cw.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}

// InvalidateCache drops every cached list entry.  Mutating handlers call
// this after a successful write so stale ride or booking lists do not
// outlive the data they show.
func InvalidateCache(rdb *redis.Client) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Request().Method == http.MethodGet {
				return nil
			}
			ctx := c.Request().Context()
			iter := rdb.Scan(ctx, 0, "cache:*", 100).Iterator()
			for iter.Next(ctx) {
				_ = rdb.Del(ctx, iter.Val()).Err()
			}
			return nil
		}
	}
}

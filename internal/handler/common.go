// Package handler contains the HTTP handlers for the rental API:
// authentication, the public property catalogue, tenant bookings and
// the owner's listing and payment management endpoints.
package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/jinzhu/now"
	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from the context
// values set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDay parses a stay date and floors it to midnight UTC.  The API
// documents YYYY-MM-DD, but mobile clients have been seen sending full
// RFC3339 timestamps; both are accepted and any time-of-day component
// is dropped, since stay dates are whole days.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return now.New(t.UTC()).BeginningOfDay(), nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

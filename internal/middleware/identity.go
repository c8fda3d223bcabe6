package middleware

// identity.go provides the user identification used by the rate
// limiter's keying strategies.  The limiter runs on public routes too,
// so an unauthenticated request resolves to "guest" rather than being
// rejected.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from context values stored
// by JWTAuth.  It returns "guest" when no user is authenticated.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case uint64, int64, int, float64:
		return fmt.Sprint(t)
	}
	return "guest"
}

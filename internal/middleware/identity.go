package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a user identifier lookup used by the rate limiter when building
// per-user keys. When no authenticated user is present, "anon" is returned.

import (
	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user's id from the Echo context.
// JWTAuth stores the token subject under "user_id"; when the request is
// unauthenticated the function returns "anon".
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}

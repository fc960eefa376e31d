package handler

import (
	"github.com/labstack/echo/v4"
)

// getUserID returns the authenticated user's id stored in the context
// by the JWT middleware, or "" when the request is unauthenticated.
func getUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}

// getRole returns the authenticated user's role claim, or "".
func getRole(c echo.Context) string {
	if v, ok := c.Get("role").(string); ok {
		return v
	}
	return ""
}

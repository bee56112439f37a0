package middleware

// identity.go holds helpers shared across middleware files: extracting a
// stable user identifier for rate-limit keys from whatever JWTAuth left
// in the context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user as a string, or "anon"
// for guests. JWT numeric claims arrive as float64, so the value is
// normalized through fmt.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v == "" {
			return "anon"
		}
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

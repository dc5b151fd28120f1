package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store request metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// UserIDFromContext returns the authenticated subject, or "" when the request
// did not pass through JWT.
func UserIDFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyUserID).(string); ok {
		return val
	}
	return ""
}

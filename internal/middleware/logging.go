package middleware

import (
	"time"

	"github.com/kataras/golog"
	"github.com/labstack/echo/v4"
)

// Logging writes a concise key=value line for each HTTP request. Server errors
// are logged at error level, client errors at warn.
func Logging(logger *golog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = golog.Default
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			logf := logger.Infof
			switch {
			case status >= 500:
				logf = logger.Errorf
			case status >= 400:
				logf = logger.Warnf
			}
			logf("request_id=%s user=%s method=%s path=%s status=%d latency=%s",
				RequestIDFromContext(c), UserIDFromContext(c), c.Request().Method, c.Request().URL.Path, status, latency)

			return err
		}
	}
}

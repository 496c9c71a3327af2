package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs method, path, status, duration and remote address of
// every request through logger.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler write the response before we read the status
				c.Error(err)
			}
			req := c.Request()
			fields := logrus.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start),
				"remote":   c.RealIP(),
			}
			if err != nil {
				fields["error"] = err
			}
			logger.WithFields(fields).Info("HTTP Request")
			return nil
		}
	}
}

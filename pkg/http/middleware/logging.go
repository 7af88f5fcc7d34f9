package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"FinSight/pkg/logger"
)

// RequestLogging logs HTTP requests at debug level. Failed requests are
// logged by the metrics middleware.
func RequestLogging(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Debug("http request",
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote_ip", c.RealIP()),
				logger.Int("status", res.Status),
				logger.Duration("duration_ms", time.Since(start)),
			)
			return nil
		}
	}
}

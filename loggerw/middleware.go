package loggerw

import (
	"time"

	"github.com/labstack/echo/v4"
)

// LoggerWitRequestID tags every request with a request id and, when showLog is
// set, writes one access line per request once the handler returns.
func LoggerWitRequestID(log Logger, showLog bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			ctx := c.Request().Context()
			r := c.Request()
			newContext, requestID := WithRequest(ctx, r)
			r = r.WithContext(newContext)
			c.SetRequest(r)
			c.Response().Header().Set(RequestIDHeader, requestID)

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			if showLog {
				log.WithFields(Fields{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     c.Response().Status,
					"latency":    time.Since(start).String(),
				}).Info("request handled")
			}
			return nil
		}
	}
}

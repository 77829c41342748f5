package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-allocation/internal/logging"
)

// RequestLogger attaches a request-scoped logrus entry to the request
// context and logs one line per request when it completes.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			entry := log.WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(logging.WithContext(req.Context(), entry)))

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status
				// logged below is the one the client sees.
				c.Error(err)
			}

			fields := logrus.Fields{
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"route":      c.Path(),
			}
			if p := PrincipalID(c); p != "" {
				fields["principal"] = p
			}
			e := entry.WithFields(fields)
			switch {
			case c.Response().Status >= 500:
				e.Error("request failed")
			case c.Response().Status >= 400:
				e.Warn("request rejected")
			default:
				e.Info("request handled")
			}
			return nil
		}
	}
}

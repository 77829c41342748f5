package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/logging"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": message, "kind": kind}.  Status codes come from the error kind;
// internal failures are logged and shown with their generic message only.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   echo.Map
		ae     *apperror.Error
		he     *echo.HTTPError
	)
	switch {
	case errors.As(err, &ae):
		status = apperror.HTTPStatus(ae.Kind)
		body = echo.Map{"error": ae.Message, "kind": ae.Kind}
		if ae.Kind == apperror.KindInternal {
			logging.FromContext(c.Request().Context()).WithError(err).Error(ae.Message)
		}
	case errors.As(err, &he):
		status = he.Code
		body = echo.Map{"error": http.StatusText(he.Code), "kind": kindForStatus(he.Code)}
		if msg, ok := he.Message.(string); ok && msg != "" {
			body["error"] = msg
		}
	default:
		logging.FromContext(c.Request().Context()).WithError(err).Error("unhandled error")
		status = http.StatusInternalServerError
		body = echo.Map{"error": "internal server error", "kind": apperror.KindInternal}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

// kindForStatus classifies errors raised by echo itself (unknown route,
// method not allowed, malformed body).
func kindForStatus(code int) apperror.Kind {
	switch code {
	case http.StatusNotFound:
		return apperror.KindNotFound
	case http.StatusUnauthorized:
		return apperror.KindUnauthorized
	case http.StatusForbidden:
		return apperror.KindForbidden
	case http.StatusConflict:
		return apperror.KindConflict
	}
	if code >= 400 && code < 500 {
		return apperror.KindInvalidArgument
	}
	return apperror.KindInternal
}

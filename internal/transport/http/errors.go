package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/service"
	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

// toHTTPError maps a service error onto a status and client message. Store
// faults and unknown errors are logged here and never leak their detail.
func toHTTPError(c echo.Context, err error) error {
	if msg, ok := service.ValidationMessage(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return echo.NewHTTPError(http.StatusBadRequest, "Username already exists.")
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found!")
	case errors.Is(err, service.ErrEntryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Entry not found or not authorized!")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials!")
	case errors.Is(err, service.ErrMissingToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
	case errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusForbidden, "Invalid token")
	}

	logging.FromContext(c.Request().Context()).Error("internal_error", "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}

// HTTPErrorHandler renders every error as {"error": message}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < http.StatusInternalServerError {
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", err)
	}
}

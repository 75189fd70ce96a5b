package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
)

// serviceError logs err under "<op>_error" and turns it into the matching
// HTTP error. Validation failures carry {"<field>": ["<message>"]}.
func serviceError(l *slog.Logger, op string, err error) error {
	event := op + "_error"

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		l.Warn(event, "status", 400, "reason", "validation", "field", ve.Field, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, map[string][]string{ve.Field: {ve.Message}})
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	case errors.Is(err, service.ErrUnauthenticated):
		l.Warn(event, "status", 401, "reason", "not authenticated", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", "bad credentials", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "policy denied", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "concurrent modification", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "resource was modified concurrently, retry")
	}

	l.Error(event, "status", 500, "reason", "internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func badRequest(l *slog.Logger, op, field, msg string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", msg, "field", field, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, map[string][]string{field: {msg}})
}

func invalidBody(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus lists the sentinel errors that reach clients, checked in order.
var domainStatus = []struct {
	target error
	code   int
	msg    string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrRoleExists, http.StatusConflict, "role already exists"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Domain errors
// get their mapped status; anything unknown is logged and reported as 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			msg = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, he.Internal.Error()
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	// the wrapped message carries the offending field or value
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest, err.Error()
	}
	for _, m := range domainStatus {
		if errors.Is(err, m.target) {
			return m.code, m.msg
		}
	}
	return http.StatusInternalServerError, err.Error()
}

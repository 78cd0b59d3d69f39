package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and German message.
//   - Logs unexpected errors internally without leaking details to the
//     client — store errors surface as one generic message.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware denials).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic status + locale message.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, domain.MsgNotAuthenticated
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionInvalid):
		return http.StatusUnauthorized, domain.MsgSessionExpired
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.MsgInvalidCredentials
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.MsgForbidden
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, domain.MsgAccountNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, domain.MsgEmailTaken
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, domain.MsgMissingFields
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, domain.MsgInvalidEmail
	case errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest, domain.MsgPasswordTooShort
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, domain.MsgWeakPassword
	case errors.Is(err, domain.ErrPasswordUnchanged):
		return http.StatusBadRequest, domain.MsgPasswordUnchanged
	case errors.Is(err, domain.ErrPasswordLoginUnavailable):
		return http.StatusBadRequest, domain.MsgSSOLoginRequired
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return http.StatusBadRequest, domain.MsgConfirmationMismatch
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.MsgDatabaseError
}

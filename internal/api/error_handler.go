package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wadesk/console-api/internal/api/metrics"
	"github.com/wadesk/console-api/internal/core/domain"
)

// errorBody carries the stable, non-sensitive denial message.
type errorBody struct {
	Message string `json:"message"`
}

// errorEnvelope is the canonical error shape for every endpoint:
// {"success": false, "error": {"message": "..."}}.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain sentinel errors to their HTTP status codes, keeping the
//     401 (no principal) vs 403 (insufficient role or not owner) split exact.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the consistent JSON error envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorEnvelope{Error: errorBody{Message: msg}})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrKeyNotFound):
		return http.StatusNotFound, "api key not found"
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusNotFound, "not configured"
	case errors.Is(err, domain.ErrKeyExists):
		return http.StatusConflict, "api key already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

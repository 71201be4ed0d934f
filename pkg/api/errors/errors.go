// Package errors turns service errors into HTTP responses.
package errors

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Generic messages for responses that must not leak details
const (
	MsgInternal       = "Internal server error"
	MsgInvalidRequest = "Invalid request body"
)

var log atomic.Value

func init() {
	log.Store(logger.Default())
}

// SetLogger sets the logger used for server-side failures
func SetLogger(l logger.Logger) {
	if l != nil {
		log.Store(l)
	}
}

func currentLogger() logger.Logger {
	return log.Load().(logger.Logger)
}

// StatusFor returns the HTTP status of a domain error code
func StatusFor(code string) int {
	switch code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Respond writes err as {"error": ...}. Domain errors keep their message;
// anything else is logged, reported to Sentry and answered with a generic 500.
func Respond(c echo.Context, err error) error {
	if de, ok := domain.As(err); ok {
		status := StatusFor(de.Code)
		if status != http.StatusInternalServerError {
			return c.JSON(status, models.ErrorResponse{Error: de.Message, EmptyFields: de.Fields})
		}
		if de.Message != "" && de.Err != nil {
			report(c, err)
			return c.JSON(status, models.ErrorResponse{Error: de.Message})
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return BadRequest(c, MsgInvalidRequest)
	}

	report(c, err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: MsgInternal})
}

// BadRequest writes a 400 with msg
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}

func report(c echo.Context, err error) {
	currentLogger().Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

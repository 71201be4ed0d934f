// Package handlers implements the HTTP endpoints.
package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/api/middleware"
	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
)

const requestTimeout = 10 * time.Second

// caller returns the identity attached by the auth gate
func caller(c echo.Context) (auth.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, domain.NewUnauthorizedError(middleware.MsgNotAuthorized)
	}
	return identity, nil
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// background detaches ctx for fire-and-forget work such as audit writes
func background(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

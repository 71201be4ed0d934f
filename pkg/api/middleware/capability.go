package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// MsgForbidden is the body of every 403
const MsgForbidden = "Forbidden"

// RequireCapability rejects callers whose role lacks capability. It must run
// after JWTMiddleware.
func RequireCapability(capability auth.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: MsgNotAuthorized})
			}
			if !identity.Can(capability) {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: MsgForbidden})
			}
			return next(c)
		}
	}
}

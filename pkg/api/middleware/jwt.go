// Package middleware holds the auth gate and route capability checks.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Auth gate messages
const (
	MsgTokenRequired = "Authorization token required"
	MsgNotAuthorized = "Request is not authorized"
)

// Context keys set by the auth gate
const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
	ClaimsKey   = "claims"
	TokenKey    = "token"
)

// IdentityResolver maps a token subject to the current caller. It must fail
// for unknown and disabled users.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (auth.Identity, error)
}

// JWTConfig configures the auth gate
type JWTConfig struct {
	Secret    string
	Blacklist domain.TokenBlacklist
	Resolver  IdentityResolver
	Logger    logger.Logger
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg})
}

// JWTMiddleware authenticates the bearer token and attaches the caller's identity
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c, MsgTokenRequired)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return unauthorized(c, MsgNotAuthorized)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			claims, err := auth.ValidateJWTWithBlacklist(ctx, token, cfg.Secret, cfg.Blacklist)
			if err != nil {
				log.Debug("token rejected", "error", err, "path", c.Path())
				return unauthorized(c, MsgNotAuthorized)
			}

			identity := auth.Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role, Status: models.UserStatusActive}
			if cfg.Resolver != nil {
				identity, err = cfg.Resolver.Resolve(ctx, claims.UserID)
				if err != nil {
					log.Debug("token subject rejected", "user_id", claims.UserID, "error", err)
					return unauthorized(c, MsgNotAuthorized)
				}
			}

			c.Set(TokenKey, token)
			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, identity.ID)
			c.Set(IdentityKey, identity)

			return next(c)
		}
	}
}

// IdentityFrom returns the caller attached by JWTMiddleware
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(auth.Identity)
	return identity, ok
}

// ClaimsFrom returns the verified token claims
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}

// TokenFrom returns the raw bearer token
func TokenFrom(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}

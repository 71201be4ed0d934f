package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig holds configuration for the security headers middleware.
// Empty fields fall back to the defaults. SwaggerPolicy applies under /swagger/.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	SwaggerPolicy         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// DefaultSecurityHeadersConfig returns the default security headers configuration.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		SwaggerPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; frame-ancestors 'none'",
		ReferrerPolicy:    "no-referrer",
		PermissionsPolicy: "camera=(), microphone=(), geolocation=(), payment=()",
	}
}

// SecurityHeaders sets the CSP, referrer, permissions and nosniff headers on every response
func SecurityHeaders(config SecurityHeadersConfig) echo.MiddlewareFunc {
	defaults := DefaultSecurityHeadersConfig()

	if config.ContentSecurityPolicy == "" {
		config.ContentSecurityPolicy = defaults.ContentSecurityPolicy
	}
	if config.SwaggerPolicy == "" {
		config.SwaggerPolicy = defaults.SwaggerPolicy
	}
	if config.ReferrerPolicy == "" {
		config.ReferrerPolicy = defaults.ReferrerPolicy
	}
	if config.PermissionsPolicy == "" {
		config.PermissionsPolicy = defaults.PermissionsPolicy
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			csp := config.ContentSecurityPolicy
			if strings.HasPrefix(c.Request().URL.Path, "/swagger/") {
				csp = config.SwaggerPolicy
			}
			res.Header().Set("Content-Security-Policy", csp)
			res.Header().Set("X-Content-Type-Options", "nosniff")
			res.Header().Set("Referrer-Policy", config.ReferrerPolicy)
			res.Header().Set("Permissions-Policy", config.PermissionsPolicy)
			return next(c)
		}
	}
}

package audit

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// GetIPAddress returns the client address, preferring the first
// X-Forwarded-For hop
func GetIPAddress(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if ip := c.Request().Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.RealIP()
}

// GetRequestContext returns the client address and user agent
func GetRequestContext(c echo.Context) (ipAddress, userAgent string) {
	return GetIPAddress(c), c.Request().UserAgent()
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP keys rate limits and request logs. The site sits behind a
// proxy, so the forwarding headers are read before the socket address.
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	return c.RemoteIP()
}

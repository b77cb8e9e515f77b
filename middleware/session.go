package middleware

import (
	"net/http"
	"time"

	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionMiddleware identifies the visitor by the signed session cookie,
// issuing a new session when the cookie is missing or does not verify.
func SessionMiddleware(signer *utils.SessionSigner, ttl time.Duration, secure bool) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return func(c *gin.Context) {
		var sid string
		if raw, err := c.Cookie(utils.SessionCookieName); err == nil && raw != "" {
			if id, err := signer.SessionID(raw); err == nil {
				sid = id
			} else {
				requestLogger(c).Debug("Discarding invalid session cookie", zap.Error(err))
			}
		}

		if sid == "" {
			sid = uuid.New().String()
			token, err := signer.Sign(sid, ttl)
			if err != nil {
				requestLogger(c).Error("Failed to sign session cookie", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(utils.SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
		}

		c.Set(utils.ContextSessionID, sid)
		c.Next()
	}
}

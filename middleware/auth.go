// middleware/auth.go
package middleware

import (
	"net/http"

	"glsalliance/models"
	"glsalliance/services/auth"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoadAuth puts the visitor's auth snapshot in the context when one exists,
// signed in or not.
// It never rejects a request.
func LoadAuth(svc auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString(utils.ContextSessionID)
		if sid == "" {
			c.Next()
			return
		}
		sess, err := svc.Snapshot(c.Request.Context(), sid)
		if err != nil {
			requestLogger(c).Warn("Failed to load auth session", zap.Error(err))
		} else if sess.Token != "" {
			c.Set(utils.ContextAuth, sess)
		}
		c.Next()
	}
}

// RequireActive admits only signed-in visitors whose account is active.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(utils.ContextAuth)
		sess, ok := v.(models.Session)
		if !ok || sess.Token == "" || sess.User == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required.", "redirect": utils.LoginPath})
			return
		}
		if !sess.Authenticated || !sess.User.IsActive() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrAccountInactive.Error(), "redirect": utils.LoginPath})
			return
		}
		c.Next()
	}
}

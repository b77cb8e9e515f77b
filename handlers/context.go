package handlers

import (
	"glsalliance/models"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
)

// sessionID returns the web session set by the session middleware.
func sessionID(c *gin.Context) string {
	return c.GetString(utils.ContextSessionID)
}

// authSession returns the auth snapshot stored by the auth middleware.
func authSession(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(utils.ContextAuth)
	if !exists {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok && sess.Authenticated
}

func currentUserID(c *gin.Context) string {
	sess, ok := authSession(c)
	if !ok || sess.User == nil {
		return ""
	}
	return sess.User.ID.String()
}

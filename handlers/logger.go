package handlers

import (
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger set by RequestLogger, or the
// process logger when the route runs without it.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(utils.ContextLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

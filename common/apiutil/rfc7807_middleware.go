package apiutil

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RFC7807ErrorMiddleware renders the last error attached with c.Error when the handler wrote nothing.
func RFC7807ErrorMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, log, c.Errors.Last().Err)
	}
}

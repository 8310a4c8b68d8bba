package apiutil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TraceHeader = "X-Trace-ID"
	traceKey    = "trace_id"
)

// TraceMiddleware assigns every request a trace id, reusing the caller's X-Trace-ID when present.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(traceKey, traceID)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// GetTraceID returns the request trace id
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceKey)
}

// RequestLogger returns log annotated with the request's trace id, route and method.
func RequestLogger(c *gin.Context, log *zap.Logger) *zap.Logger {
	return log.With(
		zap.String("trace_id", GetTraceID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
}

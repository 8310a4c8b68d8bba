package apiutil

import (
	"strconv"
	"time"

	"github.com/Aidin1998/foodgram/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records HTTP request counts and durations for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(path, method, status).Inc()
		metrics.HTTPLatency.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}

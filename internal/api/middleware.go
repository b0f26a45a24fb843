// internal/api/middleware.go
package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/common/metrics"
)

// requestLogger logs every request after it completes. Errors surface in the
// handler's envelope; here only the access line is written.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request handled", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

// requestMetrics records per-route counters and latency. The route template
// (c.FullPath) keeps cardinality bounded; unmatched paths count as "unknown".
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		metrics.APIRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

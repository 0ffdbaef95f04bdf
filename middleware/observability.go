package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/metrics"
	"github.com/o-vuong/doggo-hotel/services/logger"
)

// MetricsMiddleware ghi số request và thời gian xử lý theo route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// LoggerMiddleware ghi một dòng log cho mỗi request
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"requestId": RequestID(c),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		}
		if p, ok := CurrentPrincipal(c); ok {
			fields["userId"] = p.UserID
		}
		entry := log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"airwatch/internal/logging"
)

// RequestLoggingMiddleware tags every request with an id and logs
// method, path, status, and latency.
func RequestLoggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Infof("Request %s: %s %s, Status: %d, Latency: %v", requestID, method, path, status, latency)
	}
}

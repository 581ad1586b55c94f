package middleware

import (
	"time"

	"aeobro.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Probe endpoints are hit every few seconds and carry no caller context
var unloggedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggerMiddleware logs one line per request through the structured logger. Query
// strings are left out since they may carry tokens.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if unloggedPaths[path] {
			return
		}
		ctx := c.Request.Context()
		logger.LogRequest(ctx, c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
		if len(c.Errors) > 0 {
			logger.Warn(ctx, "Request finished with handler errors", zap.String("errors", c.Errors.String()))
		}
	}
}

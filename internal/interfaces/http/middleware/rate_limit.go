package middleware

import (
	"net/http"
	"strconv"
	"time"

	"aeobro.backend/internal/infrastructure/ratelimit"
	"aeobro.backend/pkg/logger"
	"aeobro.backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware applies limiter per client IP. When the limiter's store fails
// the request is allowed.
func RateLimitMiddleware(limiter ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		result, err := limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			m.IncDegraded()
			logger.Warn(ctx, "Rate limit store unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if result.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		}
		if !result.Allowed {
			m.IncRejected()
			retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "Too many verification attempts, try again later",
			})
			return
		}

		c.Next()
	}
}

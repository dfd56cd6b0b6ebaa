package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeffgoval/arena-sub003/internal/platform/metrics"
	"github.com/jeffgoval/arena-sub003/internal/platform/ratelimit"
)

// RateLimit creates a Gin middleware enforcing the given policy. The caller
// identity is the authenticated user when present, the client IP otherwise.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.PolicyName) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		identity := c.ClientIP()
		if userID, ok := GetUserIDFromContext(c); ok {
			identity = userID
		}

		decision, err := limiter.Check(c.Request.Context(), identity, policy)
		if err != nil {
			logger.Error("Rate limit check failed", slog.String("identity", identity), slog.String("policy", string(policy)), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			logger.Warn("Rate limit exceeded", slog.String("identity", identity), slog.String("policy", string(policy)), slog.Int("retry_after_seconds", retryAfter))
			metrics.RateLimitDenials.WithLabelValues(string(policy)).Inc()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":             "Too many requests. Please try again later.",
				"retryAfterSeconds": retryAfter,
			})
			return
		}

		c.Next()
	}
}

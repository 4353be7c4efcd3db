package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/utils"
)

// Policy configures one endpoint class. Window and Max come from the
// environment so operators can retune without a deploy.
type Policy struct {
	Window time.Duration
	Max    int64
	// SkipSuccessful excludes requests answered below 400 from the count,
	// so only failed logins burn attempts.
	SkipSuccessful bool
	Message        string
}

// Middleware guards a route group with the given policy, keyed by client IP.
// When the store is unreachable the request passes through; throttling is a
// protection layer, not an availability dependency.
func Middleware(store Store, name string, p Policy, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()

		count, err := store.Incr(c.Request.Context(), key, p.Window)
		if err != nil {
			logger.Error("rate limit store unavailable", "limiter", name, "error", err)
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.FormatInt(p.Max, 10))
		remaining := p.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > p.Max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": p.Message,
			})
			return
		}

		c.Next()

		if p.SkipSuccessful && c.Writer.Status() < http.StatusBadRequest {
			if err := store.Decr(c.Request.Context(), key); err != nil {
				logger.Error("rate limit decrement failed", "limiter", name, "error", err)
			}
		}
	}
}

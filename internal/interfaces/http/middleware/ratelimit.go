package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/infrastructure/ratelimit"
	"github.com/civicpulse/civicpulse/internal/shared/constants"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

// RateLimiter throttles an action per authenticated user, falling back to
// the client IP for anonymous callers. When the backing store is
// unreachable requests are let through.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit allows perMinute requests of action per caller. A non-positive
// limit disables the check.
func (rl *RateLimiter) Limit(action string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", action, callerKey(c))
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, ratelimit.RateLimitConfig{RequestsPerMinute: perMinute})
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request",
				"action", action,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if userID := c.GetUint(constants.ContextKeyUserID); userID != 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return "ip:" + c.ClientIP()
}

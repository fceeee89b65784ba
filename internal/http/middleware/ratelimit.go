package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

// PinRateLimiter bounds PIN attempts per client IP with a redis
// fixed-window counter. The progression engine itself never
// throttles; this sits in front of /api/authorize only. With no redis
// client configured the limiter is a pass-through.
type PinRateLimiter struct {
	log    *logger.Logger
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewPinRateLimiter(log *logger.Logger, rdb *redis.Client, limit int, window time.Duration) *PinRateLimiter {
	middlewareLog := log.With("Middleware", "PinRateLimiter")
	return &PinRateLimiter{log: middlewareLog, rdb: rdb, limit: limit, window: window}
}

func (rl *PinRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.rdb == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("pin_attempts:%s", c.ClientIP())
		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// Best effort: a broken limiter must not block the hunt.
			rl.log.Warn("PIN rate limiter unavailable (allowing request)", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.log.Warn("PIN rate limiter expire failed", "error", err)
			}
		}
		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "too many PIN attempts, try again later", "code": "too_many_attempts"},
			})
			return
		}
		c.Next()
	}
}

// internal/orchestrator/ratelimit.go
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"bizauto-agents/internal/common/database"
	"bizauto-agents/internal/common/logger"
)

// RateLimiter enforces a fixed-window per-client request budget backed by
// Redis. A nil limiter allows everything.
type RateLimiter struct {
	redis  *database.RedisClient
	limit  int
	window time.Duration
	logger logger.Logger
}

func NewRateLimiter(redis *database.RedisClient, perMinute int, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redis,
		limit:  perMinute,
		window: time.Minute,
		logger: log.WithFields(map[string]interface{}{"component": "ratelimit"}),
	}
}

// Allow reports whether the client has budget left in the current window.
// Redis outages fail open so the limiter never takes the service down.
func (rl *RateLimiter) Allow(ctx context.Context, clientID string) bool {
	if rl == nil || rl.redis == nil || rl.limit <= 0 {
		return true
	}
	if clientID == "" {
		clientID = "anonymous"
	}

	key := fmt.Sprintf("ratelimit:%s:%d", clientID, time.Now().Unix()/int64(rl.window.Seconds()))
	count, err := rl.redis.Incr(ctx, key)
	if err != nil {
		rl.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
			"client": clientID,
			"error":  err.Error(),
		})
		return true
	}
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.window); err != nil {
			rl.logger.Warn("rate limit expiry failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return count <= int64(rl.limit)
}

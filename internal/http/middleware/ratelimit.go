package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/requestdata"
)

// windowCounter counts hits on key inside a fixed window and reports the
// time left before the window resets.
type windowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type redisWindowCounter struct {
	client *redis.Client
}

// Hit runs INCR and PTTL in one transaction. A key left without an expiry
// (first hit, or an earlier EXPIRE that failed) gets one here.
func (r redisWindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	}); err != nil {
		return 0, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	left := ttl.Val()
	if left < 0 {
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return incr.Val(), window, fmt.Errorf("expire %s: %w", key, err)
		}
		left = window
	}
	return incr.Val(), left, nil
}

// RateLimiter is a fixed-window counter in Redis. With no client every
// request passes.
type RateLimiter struct {
	log     *logger.Logger
	counter windowCounter
}

func NewRateLimiter(log *logger.Logger, client *redis.Client) *RateLimiter {
	rl := &RateLimiter{log: log.With("middleware", "RateLimiter")}
	if client != nil {
		rl.counter = redisWindowCounter{client: client}
	}
	return rl
}

// Limit keys authenticated requests by user id and anonymous ones by client IP.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	if rl == nil || rl.counter == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		if uid := requestdata.UserID(c.Request.Context()); uid != 0 {
			subject = "user:" + strconv.FormatUint(uint64(uid), 10)
		}
		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, subject)

		count, ttl, err := rl.counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			rl.log.Warn("rate limiter unavailable; allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds()+0.5)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "too many requests", "code": "rate_limited"},
			})
			return
		}
		c.Next()
	}
}

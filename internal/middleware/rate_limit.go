package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ngenohkevin/lms-circulation/internal/config"
)

// RateLimiter keeps fixed-window request counters in Redis so every server
// instance sees the same budget.
type RateLimiter struct {
	redisClient *redis.Client
}

type RateLimit struct {
	Requests int           // Number of requests
	Window   time.Duration // Time window
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
	}
}

func (rl *RateLimiter) Limit(limit RateLimit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redisClient == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		// ClientIP only honours forwarding headers from the engine's trusted proxies.
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		// SET NX EX opens the window with its expiry; INCR keeps the TTL.
		var (
			incr *redis.IntCmd
			ttl  *redis.DurationCmd
		)
		_, err := rl.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, limit.Window)
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			// If Redis is down, allow the request
			slog.Default().Warn("Rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		count := incr.Val()

		window := ttl.Val()
		if window < 0 {
			window = limit.Window
		}
		reset := strconv.FormatInt(time.Now().Add(window).Unix(), 10)

		if count > int64(limit.Requests) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", reset)
			abort(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limit.Requests)-count, 10))
		c.Header("X-RateLimit-Reset", reset)

		c.Next()
	}
}

// APILimit applies the configured per-client budget.
func (rl *RateLimiter) APILimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return rl.Limit(RateLimit{
		Requests: cfg.Requests,
		Window:   cfg.Window,
	})
}

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const DefaultIdempotencyTTL = 10 * time.Minute

// Idempotency claims the Idempotency-Key of a write in Redis before the
// handler runs. A second request with the same key inside the TTL is refused
// with 409. The claim is dropped again when the handler did not succeed, so
// a corrected retry can reuse the key. Requests without the header pass.
func Idempotency(redisClient *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || redisClient == nil {
			c.Next()
			return
		}
		if len(key) > 128 {
			abort(c, http.StatusBadRequest, "VALIDATION_ERROR", "Idempotency-Key must be at most 128 characters")
			return
		}

		ctx := c.Request.Context()
		redisKey := fmt.Sprintf("idempotency:%s:%s:%s:%s", Actor(c), c.Request.Method, c.FullPath(), key)

		claimed, err := redisClient.SetNX(ctx, redisKey, GetRequestID(c), ttl).Result()
		if err != nil {
			slog.Default().Warn("Idempotency store unavailable", "error", err)
			c.Next()
			return
		}
		if !claimed {
			abort(c, http.StatusConflict, "DUPLICATE_REQUEST", "A request with this Idempotency-Key was already received")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := redisClient.Del(ctx, redisKey).Err(); err != nil {
				slog.Default().Warn("Failed to release idempotency key", "key", key, "error", err)
			}
		}
	}
}

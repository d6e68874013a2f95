package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// checkRateLimit reports whether the resource/id pair is still within its
// window. It fails open: with no Redis client or on a Redis error the
// request is allowed through.
func checkRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces `limit` requests per `window` keyed by client IP,
// grouped under `name`.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := checkRateLimit(c.Request.Context(), rdb, name, c.ClientIP(), limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

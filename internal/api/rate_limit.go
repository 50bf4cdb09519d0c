package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cvcraft/internal/api/middleware"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// ExportRateLimit 按客户端 IP 限制每分钟的导出请求数，Redis 不可用时放行。
func ExportRateLimit(client redisRateCounter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := "rate:export:" + c.ClientIP() + ":" + time.Now().UTC().Format("200601021504")
		count, err := incrWithTTL(c.Request.Context(), client, key, time.Minute)
		if err != nil {
			middleware.LoggerFromContext(c).Warn("export rate counter unavailable", slog.Any("error", err))
			c.Next()
			return
		}
		if count > int64(perMinute) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

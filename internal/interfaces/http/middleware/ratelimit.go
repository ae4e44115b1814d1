package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/infrastructure/persistence/redis"
)

// ClientRateLimiter 限流器接口
type ClientRateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// RateLimit 按客户端 IP 的限流中间件
// 限流器故障时放行，避免 Redis 抖动影响业务
func RateLimit(cfg config.RateLimitConfig, limiter ClientRateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limit := cfg.RequestsPerSecond
	if limit <= 0 {
		limit = 10
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := redis.BuildClientRateLimitKey(c.ClientIP(), c.Request.URL.Path)

		allowed, err := limiter.Allow(ctx, key, limit, time.Second)
		if err != nil {
			c.Next()
			return
		}

		if remaining, err := limiter.Remaining(ctx, key, limit, time.Second); err == nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

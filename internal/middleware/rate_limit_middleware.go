package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/customer-records-backend/internal/errors"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the Redis fixed-window limiter
type RateLimitConfig struct {
	Redis     *redis.Client
	Limit     int           // requests per window per client IP
	Window    time.Duration // defaults to 1s
	KeyPrefix string        // defaults to "rl:ip:"

	now func() time.Time
}

// RateLimitMiddleware allows Limit requests per Window for each client IP.
// With no Redis client or a non-positive limit every request passes, and so
// does a request whose counter update fails.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	return func(c *gin.Context) {
		if cfg.Redis == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		now := cfg.now()
		window := now.UnixNano() / int64(cfg.Window)
		key := cfg.KeyPrefix + c.ClientIP() + ":" + strconv.FormatInt(window, 10)

		ctx := c.Request.Context()
		pipe := cfg.Redis.Pipeline()
		cnt := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, cfg.Window*2)
		if _, err := pipe.Exec(ctx); err != nil {
			GetLoggerFromContext(c).Warn("Rate limiter unavailable, allowing request", map[string]interface{}{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if cnt.Val() > int64(cfg.Limit) {
			remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
			seconds := int(remain.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			apperrors.TooManyRequests(c, "")
			return
		}

		c.Next()
	}
}

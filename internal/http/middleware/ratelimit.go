package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig config for Redis-based RPS limiter.
type RateLimitConfig struct {
	Redis          *redis.Client
	RPS            int           // per client IP; <= 0 disables the limit
	KeyPrefix      string        // e.g. "rl:ip:"
	Window         time.Duration // usually 1s
	RetryAfterHint bool          // set Retry-After header when limited
	Now            func() time.Time

	// Redis is skipped for BreakerOpenFor after BreakerThreshold consecutive errors.
	BreakerThreshold int
	BreakerOpenFor   time.Duration
}

// RateLimitMiddleware applies a simple fixed-window per-client-IP limit.
// Without Redis (dev) every request is allowed; Redis errors fail open and
// repeated ones stop the limiter from calling Redis for a while.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 10 * time.Second
	}
	cb := newBreaker(cfg.BreakerThreshold, cfg.BreakerOpenFor, cfg.Now)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if cfg.RPS <= 0 || cfg.Redis == nil {
			return next
		}
		return func(c echo.Context) error {
			if !cb.allow() {
				return next(c)
			}
			ctx := c.Request().Context()

			// fixed-window key: rl:ip:{ip}:{window}
			now := cfg.Now()
			window := now.UnixNano() / int64(cfg.Window)
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(window, 10)

			// INCR and set expiry 2*window (safety)
			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, cfg.Window*2)
			if _, err := pipe.Exec(ctx); err != nil {
				cb.failure()
				logger.Log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			cb.success()

			if cnt.Val() > int64(cfg.RPS) {
				if cfg.RetryAfterHint {
					remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
					secs := int((remain + time.Second - 1) / time.Second)
					c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}

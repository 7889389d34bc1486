package middleware

import (
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig config for the Redis-based ingestion limiter.
type RateLimitConfig struct {
	Redis     *redis.Client
	RPS       int           // max requests per window per caller
	KeyPrefix string        // e.g. "rl:ip:"
	Window    time.Duration // usually 1s
}

// RateLimitMiddleware applies a fixed-window per-IP limit to the public
// user-message route. Fails open when redis is absent or errors, so a redis
// outage never takes the relay down with it.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Redis == nil || cfg.RPS <= 0 {
				return next(c)
			}

			// fixed-window key: rl:ip:{addr}:{unix_sec}
			now := time.Now()
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(now.Unix(), 10)

			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(c.Request().Context(), key)
			pipe.Expire(c.Request().Context(), key, cfg.Window*2)
			if _, err := pipe.Exec(c.Request().Context()); err != nil {
				return next(c)
			}

			if cnt.Val() > int64(cfg.RPS) {
				remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
				if remain > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(remain.Round(time.Second)/time.Second)))
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}

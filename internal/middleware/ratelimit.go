package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/response"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis, so every
// instance behind a load balancer shares the same counters.
type RateLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window
// (e.g., 30 per minute). A nil client disables limiting.
func NewRateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Str("scope", scope).Logger(),
		now:    time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		seconds := int64(rl.window / time.Second)
		windowID := rl.now().Unix() / seconds
		key := config.CacheKey.RateLimitKey(rl.scope, c.ClientIP(), windowID)

		ctx := c.Request.Context()
		pipe := rl.rdb.TxPipeline()
		count := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}

		if count.Val() > int64(rl.limit) {
			retryAfter := (windowID+1)*seconds - rl.now().Unix()
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

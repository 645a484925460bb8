package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Limiter decides whether one more request from key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a per-process fixed-window counter.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	interval time.Duration
	now      func() time.Time
}

type visitor struct {
	window int64
	count  int
}

// NewMemoryLimiter allows rate requests per key per interval.
func NewMemoryLimiter(rate int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	window := l.now().UnixNano() / int64(l.interval)

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok || v.window != window {
		if !ok && len(l.visitors) > 10000 {
			l.evictBefore(window)
		}
		v = &visitor{window: window}
		l.visitors[key] = v
	}
	if v.count >= l.rate {
		return false, nil
	}
	v.count++
	return true, nil
}

// evictBefore drops counters of past windows. Caller holds mu.
func (l *MemoryLimiter) evictBefore(window int64) {
	for key, v := range l.visitors {
		if v.window < window {
			delete(l.visitors, key)
		}
	}
}

// RedisLimiter is a fixed-window counter shared by every instance behind the
// same redis.
type RedisLimiter struct {
	rdb      *redis.Client
	rate     int
	interval time.Duration
	now      func() time.Time
}

// NewRedisLimiter allows rate requests per key per interval.
func NewRedisLimiter(rdb *redis.Client, rate int, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, rate: rate, interval: interval, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().UnixNano() / int64(l.interval)
	redisKey := config.CacheKey.AuthRateLimitKey(key, window)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.interval)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.rate), nil
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter
// errors let the request through.
func RateLimit(l Limiter, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "ratelimit").Logger()
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("request_id", response.RequestID(c)).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

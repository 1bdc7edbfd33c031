package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/moments/config"
	"github.com/d60-Lab/moments/internal/auth"
	"github.com/d60-Lab/moments/pkg/logger"
	"github.com/d60-Lab/moments/pkg/response"
)

// RateLimit 按登录用户（否则按 IP）限流。
// 有 redis 时用一分钟固定窗口计数，多实例共享；否则进程内令牌桶。
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var allow func(ctx context.Context, key string) bool
	if rdb != nil {
		allow = (&windowLimiter{rdb: rdb, limit: int64(cfg.RequestsPerMinute), window: time.Minute, now: time.Now}).allow
	} else {
		local := newLocalLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.Burst)
		allow = func(_ context.Context, key string) bool { return local.allow(key, time.Now()) }
	}

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := auth.ViewerID(c.Request.Context()); id != "" {
			key = "u:" + id
		}
		if !allow(c.Request.Context(), key) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

type windowLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func (l *windowLimiter) allow(ctx context.Context, key string) bool {
	slot := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		// 每次都带上过期时间，窗口键不会残留
		pipe.Expire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		// redis 故障时放行
		logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		return true
	}
	return incr.Val() <= l.limit
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

type localLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newLocalLimiter(limit rate.Limit, burst int) *localLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &localLimiter{limit: limit, burst: burst, visitors: make(map[string]*visitor)}
}

const visitorIdle = 3 * time.Minute

func (l *localLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > time.Minute {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > visitorIdle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

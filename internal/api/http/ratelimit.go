package http

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/pizza-service/internal/config"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

const (
	rateLimitKeyPrefix = "ratelimit:"
	maxLocalBuckets    = 10000
)

var errNoRedis = errors.New("redis client not configured")

// RateLimiter caps requests per client IP and route with a fixed window kept
// in Redis. When Redis is unavailable it falls back to a token bucket held
// in process memory.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimiter builds a limiter; client may be nil.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.Requests
	if limit <= 0 {
		limit = 10
	}
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: cfg.Window(),
		logger: logger,
		local:  make(map[string]*localBucket),
		now:    time.Now,
	}
}

// Handle rejects the request with 429 once the caller exhausted the window.
func (l *RateLimiter) Handle(c *fiber.Ctx) error {
	key := rateLimitKeyPrefix + c.Route().Path + ":" + c.IP()

	allowed, err := l.allowShared(c.UserContext(), key)
	if err != nil {
		if !errors.Is(err, errNoRedis) {
			l.logger.Warn("rate limiter falling back to local buckets", zap.Error(err))
		}
		allowed = l.allowLocal(key)
	}
	if !allowed {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(l.window.Seconds())))
		return apperrors.NewTooManyRequests("Too many requests, please try again later")
	}
	return c.Next()
}

// allowShared counts the hit and reads the TTL in one transaction. A key
// without a TTL (first hit, or an earlier EXPIRE that failed) gets one here,
// so a counter can never outlive its window.
func (l *RateLimiter) allowShared(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, errNoRedis
	}
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, err
	}
	if ttl.Val() < 0 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= int64(l.limit), nil
}

// allowLocal uses one token bucket per key. A bucket idle for a whole window
// has refilled completely, so dropping it loses nothing.
func (l *RateLimiter) allowLocal(key string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.window || len(l.local) >= maxLocalBuckets {
		l.sweep(now)
	}
	bucket, ok := l.local[key]
	if !ok {
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)}
		l.local[key] = bucket
	}
	bucket.seen = now
	l.mu.Unlock()
	return bucket.limiter.AllowN(now, 1)
}

func (l *RateLimiter) sweep(now time.Time) {
	for key, bucket := range l.local {
		if now.Sub(bucket.seen) >= l.window {
			delete(l.local, key)
		}
	}
	l.lastSweep = now
}

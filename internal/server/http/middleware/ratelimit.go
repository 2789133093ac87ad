package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/polkiloo/weddingmart/internal/server/http/dto"
)

const limiterPrefix = "weddingmart:ratelimit"

// ParseRate reads rates such as "50-5m", "10-30s" or "100-1h".
// A missing count before the unit means one, so "5-m" equals "5-1m".
func ParseRate(raw string) (limiter.Rate, error) {
	limitPart, periodPart, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return limiter.Rate{}, fmt.Errorf("invalid rate %q: expected <limit>-<period>", raw)
	}
	limit, err := strconv.ParseInt(limitPart, 10, 64)
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit %q", limitPart)
	}
	if periodPart == "" {
		return limiter.Rate{}, fmt.Errorf("invalid rate period in %q", raw)
	}

	var unit time.Duration
	switch periodPart[len(periodPart)-1] {
	case 's', 'S':
		unit = time.Second
	case 'm', 'M':
		unit = time.Minute
	case 'h', 'H':
		unit = time.Hour
	case 'd', 'D':
		unit = 24 * time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported rate period %q", periodPart)
	}
	count := int64(1)
	if n := periodPart[:len(periodPart)-1]; n != "" {
		if count, err = strconv.ParseInt(n, 10, 64); err != nil || count <= 0 {
			return limiter.Rate{}, fmt.Errorf("invalid rate period %q", periodPart)
		}
	}
	return limiter.Rate{Limit: limit, Period: time.Duration(count) * unit}, nil
}

// NewMemoryStore keeps counters in process memory.
func NewMemoryStore() limiter.Store {
	return memorystore.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix})
}

// NewRedisStore keeps counters in Redis so that replicas share one budget.
// The returned client must be closed by the caller.
func NewRedisStore(ctx context.Context, redisURL string) (limiter.Store, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix, MaxRetry: 3})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("create redis limiter store: %w", err)
	}
	return store, client, nil
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	rate    limiter.Rate
	handler gin.HandlerFunc
}

// NewRateLimiter builds a limiter over store with the given rate expression.
func NewRateLimiter(store limiter.Store, rawRate string) (*RateLimiter, error) {
	rate, err := ParseRate(rawRate)
	if err != nil {
		return nil, err
	}
	lim := limiter.New(store, rate)
	handler := ginlimiter.NewMiddleware(lim,
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.MessageResponse{Success: false, Message: "too many requests, try again later"})
		}),
		ginlimiter.WithErrorHandler(func(c *gin.Context, err error) {
			// store failures fail open
			_ = c.Error(err)
			c.Next()
		}),
	)
	return &RateLimiter{rate: rate, handler: handler}, nil
}

// Rate returns the configured rate.
func (r *RateLimiter) Rate() limiter.Rate {
	return r.rate
}

// Handler returns gin middleware enforcing the rate.
func (r *RateLimiter) Handler() gin.HandlerFunc {
	return r.handler
}

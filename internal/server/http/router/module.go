package router

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/weddingmart/internal/config"
	"github.com/polkiloo/weddingmart/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(Setup, newRateLimiter)

const redisConnectTimeout = 5 * time.Second

type limiterParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// newRateLimiter shares counters through Redis when configured. An unreachable
// Redis degrades to per-process counters.
func newRateLimiter(p limiterParams) (*middleware.RateLimiter, error) {
	store := middleware.NewMemoryStore()
	if p.Config.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		redisStore, client, err := middleware.NewRedisStore(ctx, p.Config.RedisURL)
		if err != nil {
			p.Logger.Warn("redis rate limit store unavailable, using memory", slog.String("error", err.Error()))
		} else {
			store = redisStore
			p.Lifecycle.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		}
	}
	return middleware.NewRateLimiter(store, p.Config.AuthRateLimit)
}

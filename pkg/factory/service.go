package factory

import (
	"context"
	"time"

	"github.com/akeren/wallet-waitlist/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimiterFactory interface {
	CreateRateLimiter() ratelimit.RateLimiter
}

type DefaultRateLimiterFactory struct {
	config *ratelimit.RateLimitConfig
}

// NewDefaultRateLimiterFactory builds limiters backed by Redis when the cache
// exposes a reachable client, and by an in-memory token bucket otherwise.
// scope keeps the limiter's Redis counters apart from the router-wide limiter.
func NewDefaultRateLimiterFactory(scope string, requests int, window time.Duration, cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests: requests,
			Window:   window,
			Redis:    redisClientFrom(cache),
			Logger:   logger,
			Scope:    scope,
		},
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter() ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(f.config)
}

func redisClientFrom(cache Cache) *redis.Client {
	if cache == nil {
		return nil
	}

	provider, ok := cache.(RedisClientProvider)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		return nil
	}

	return provider.GetClient()
}

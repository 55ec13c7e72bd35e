package config

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/wallet-waitlist/internal/log"
	pkgredis "github.com/akeren/wallet-waitlist/pkg/redis"
	"github.com/akeren/wallet-waitlist/pkg/utils"
	"github.com/go-redis/redis/v8"
)

// Cache backs the waitlist count cache, the Redis rate limiters, and the health check.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisClientProvider is implemented by caches that can hand out their client
// for Lua-scripted rate limiting.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		URL:      utils.GetEnvTrimmed("REDIS_URL"),
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: utils.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       utils.GetEnvPositiveInt("REDIS_DB", 0),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.URL != "" || cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		logger.Error("Cache (Redis) configuration is missing")
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		URL:      cc.URL,
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully", "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil never fails: without a reachable Redis the service runs with
// in-memory rate limiting and an uncached count.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Warn("Continuing without external cache", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

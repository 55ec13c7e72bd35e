package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const pingTimeout = 5 * time.Second

var ErrMissingAddress = errors.New("redis: host or url is required")

// Config selects the server either by URL ("redis://:pass@host:6379/0") or by
// host and port. URL wins when both are set.
type Config struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

func (cfg *Config) options() (*goredis.Options, error) {
	if cfg == nil || (cfg.URL == "" && cfg.Host == "") {
		return nil, ErrMissingAddress
	}

	if cfg.URL != "" {
		opts, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("redis: parse url: %w", err)
		}
		return opts, nil
	}

	return &goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// RedisCache implements the application cache on top of a single Redis client.
type RedisCache struct {
	client *goredis.Client
}

// NewRedisCache connects and pings once; an unreachable server is an error.
func NewRedisCache(cfg *Config) (*RedisCache, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *goredis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns ("", nil) for a missing key.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis: get %q: %w", key, err)
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: delete %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetClient exposes the client for rate limiting scripts.
func (c *RedisCache) GetClient() *goredis.Client {
	return c.client
}

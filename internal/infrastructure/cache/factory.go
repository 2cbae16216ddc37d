package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backends are the cache-backed stores used by the service. Client is nil
// when the in-memory fallback is in use.
type Backends struct {
	Client      *redis.Client
	Idempotency shared.IdempotencyStore
	Listing     ListingCache
}

// Close releases the stores and the Redis connection
func (b *Backends) Close() error {
	if b.Idempotency != nil {
		_ = b.Idempotency.Close()
	}
	if b.Client != nil {
		return b.Client.Close()
	}
	return nil
}

// Factory creates cache backends based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient opens and pings a Redis connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Build connects to Redis when enabled and falls back to in-memory stores
// if it is disabled or unreachable and fallback is allowed.
func (f *Factory) Build(ctx context.Context) (*Backends, error) {
	if f.redisConfig.Enabled {
		client, err := NewRedisClient(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("Using Redis cache backends", zap.String("addr", f.redisConfig.Addr()))
			return &Backends{
				Client:      client,
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Listing:     NewRedisListingCache(client, f.cacheConfig.ListingTTL),
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory cache backends. "+
			"Duplicate submissions are only detected per instance.",
			zap.Error(err),
		)
	}
	return f.InMemory(), nil
}

// InMemory returns process-local backends
func (f *Factory) InMemory() *Backends {
	return &Backends{
		Idempotency: NewInMemoryIdempotencyStore(),
		Listing:     NewInMemoryListingCache(f.cacheConfig.ListingTTL),
	}
}

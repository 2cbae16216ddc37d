package cache

import (
	"time"

	"github.com/invoicedash/backend/internal/infrastructure/config"
)

func redisDisabled() config.RedisConfig {
	return config.RedisConfig{Host: "localhost", Port: 6379}
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		ListingTTL:         time.Minute,
		IdempotencyEnabled: true,
		IdempotencyTTL:     time.Hour,
	}
}

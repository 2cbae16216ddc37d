package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "ratelimit:"

// windowScript increments the window counter and starts its expiry on the
// first hit. Returns the count for this window.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisRateLimiter is a fixed-window limiter shared by every instance
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

// Allow counts one request for key
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	n, err := windowScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count request: %w", err)
	}
	if n > l.limit {
		return false, 0, nil
	}
	return true, l.limit - n, nil
}

// Limit returns the number of requests allowed per window
func (l *RedisRateLimiter) Limit() int {
	return l.limit
}

// Window returns the window length
func (l *RedisRateLimiter) Window() time.Duration {
	return l.window
}

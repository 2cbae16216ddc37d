package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevocations tracks session tokens that were signed out before
// they expired. Entries live only as long as the token would have.
type SessionRevocations interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisSessionRevocations implements SessionRevocations using Redis
type RedisSessionRevocations struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionRevocations uses an existing Redis client
func NewRedisSessionRevocations(client *redis.Client) *RedisSessionRevocations {
	return &RedisSessionRevocations{
		client:    client,
		keyPrefix: "session:revoked:",
	}
}

func (r *RedisSessionRevocations) key(jti string) string {
	return r.keyPrefix + jti
}

// Revoke marks jti as signed out for ttl
func (r *RedisSessionRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was signed out
func (r *RedisSessionRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

var _ SessionRevocations = (*RedisSessionRevocations)(nil)

// InMemorySessionRevocations is the single-instance fallback used when
// Redis is disabled
type InMemorySessionRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
	now     func() time.Time
}

// NewInMemorySessionRevocations creates an empty in-memory store
func NewInMemorySessionRevocations() *InMemorySessionRevocations {
	return &InMemorySessionRevocations{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks jti as signed out for ttl
func (r *InMemorySessionRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = r.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti was signed out, dropping expired entries
func (r *InMemorySessionRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, ok := r.revoked[jti]
	if !ok {
		return false, nil
	}
	if r.now().After(expiry) {
		delete(r.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ SessionRevocations = (*InMemorySessionRevocations)(nil)

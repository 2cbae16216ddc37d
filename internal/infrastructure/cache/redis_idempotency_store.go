package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyPrefix = "submission:"

// releaseScript deletes a key only while it is still pending, so a late
// release never drops a completed submission.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisIdempotencyStore implements IdempotencyStore using Redis.
// It is shared by every instance of the service.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing Redis client.
// The client is owned by the caller.
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultIdempotencyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim marks the key pending with SETNX
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, string(shared.SubmissionPending), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim submission: %w", err)
	}
	return ok, nil
}

// Complete marks the key completed for ttl
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, string(shared.SubmissionCompleted), ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete submission: %w", err)
	}
	return nil
}

// State returns the stored state, or SubmissionUnknown
func (s *RedisIdempotencyStore) State(ctx context.Context, key string) (shared.SubmissionState, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return shared.SubmissionUnknown, nil
	}
	if err != nil {
		return shared.SubmissionUnknown, fmt.Errorf("failed to read submission state: %w", err)
	}
	return shared.SubmissionState(val), nil
}

// Release drops a pending claim
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	err := releaseScript.Run(ctx, s.client, []string{s.keyPrefix + key}, string(shared.SubmissionPending)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release submission: %w", err)
	}
	return nil
}

// Close is a no-op; the client is closed by its owner
func (s *RedisIdempotencyStore) Close() error {
	return nil
}

// Ensure RedisIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)

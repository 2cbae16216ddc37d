package cache

import (
	"context"
	"testing"
	"time"

	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()
	key := "invoice:create::abc"

	state, err := store.State(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, shared.SubmissionUnknown, state)

	claimed, err := store.Claim(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.Claim(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed, "a pending key cannot be claimed twice")

	state, err = store.State(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, shared.SubmissionPending, state)

	require.NoError(t, store.Complete(ctx, key, time.Hour))
	state, err = store.State(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, shared.SubmissionCompleted, state)

	require.NoError(t, store.Release(ctx, key))
	state, err = store.State(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, shared.SubmissionCompleted, state, "release keeps completed keys")
}

func TestInMemoryIdempotencyStore_ReleasePending(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k"))

	claimed, err := store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	state, err := store.State(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, shared.SubmissionUnknown, state)

	store.cleanup()
	assert.Zero(t, store.Size())

	claimed, err := store.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

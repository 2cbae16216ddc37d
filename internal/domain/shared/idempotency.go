package shared

import (
	"context"
	"time"
)

// SubmissionState is the lifecycle state of an idempotency key
type SubmissionState string

const (
	// SubmissionUnknown means the key has never been seen or has expired
	SubmissionUnknown SubmissionState = ""
	// SubmissionPending means a request holding the key is still running
	SubmissionPending SubmissionState = "pending"
	// SubmissionCompleted means the mutation behind the key was committed
	SubmissionCompleted SubmissionState = "completed"
)

// IdempotencyStore remembers form submissions so a retried request
// does not write the same record twice.
type IdempotencyStore interface {
	// Claim marks the key as pending. It returns false if the key is
	// already pending or completed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete marks a claimed key as committed, keeping it for ttl.
	Complete(ctx context.Context, key string, ttl time.Duration) error

	// State reports the current state of the key
	State(ctx context.Context, key string) (SubmissionState, error)

	// Release drops a pending claim so the user can resubmit
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

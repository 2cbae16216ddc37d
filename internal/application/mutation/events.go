package mutation

import (
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// EventTypeMutationCommitted is published after every successful write
const EventTypeMutationCommitted = "MutationCommitted"

// MutationCommitted signals that a write reached storage
type MutationCommitted struct {
	shared.BaseDomainEvent
	Kind        Kind   `json:"kind"`
	Action      Action `json:"action"`
	ListingPath string `json:"listing_path"`
}

// NewMutationCommitted creates the event for an entity write
func NewMutationCommitted(kind Kind, action Action, id uuid.UUID, listingPath string) *MutationCommitted {
	return &MutationCommitted{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMutationCommitted, string(kind), id),
		Kind:            kind,
		Action:          action,
		ListingPath:     listingPath,
	}
}

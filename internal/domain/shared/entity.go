package shared

import (
	"github.com/google/uuid"
)

// Entity is implemented by every dashboard record
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries the identifier shared by all records.
// The dashboard tables only store an id; timestamps live on the
// individual entities where the listing pages display them.
type BaseEntity struct {
	ID uuid.UUID
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: uuid.New()}
}

// ParseID parses a route or form identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

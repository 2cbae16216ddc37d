package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// CustomerRepository persists customers and serves the customer listing
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	// Update writes name and email only
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindFiltered(ctx context.Context, q shared.ListQuery) ([]CustomerRow, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	FindOptions(ctx context.Context) ([]CustomerOption, error)
	Count(ctx context.Context) (int64, error)
}

// ContactRepository persists contacts
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindFiltered(ctx context.Context, q shared.ListQuery) ([]Contact, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
}

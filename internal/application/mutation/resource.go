package mutation

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// Listing pages each entity redirects to after a write
const (
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
	ExpensesPath  = "/dashboard/expenses"
	ContactsPath  = "/dashboard/contacts"
)

// Store is the write side of an entity repository
type Store[T shared.Entity] interface {
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DecodeFunc validates a form and builds the entity with the given id
type DecodeFunc[T shared.Entity] func(form Form, id uuid.UUID) (T, FieldErrors)

// RollbackFunc undoes the side effects of an attachment hook
type RollbackFunc func(ctx context.Context)

// AttachFunc runs before persistence of creates and updates, e.g. to upload
// a file referenced by the entity. The returned rollback is called if the
// write fails.
type AttachFunc[T shared.Entity] func(ctx context.Context, action Action, entity T, form Form) (RollbackFunc, error)

// Resource binds one entity kind to the pipeline
type Resource[T shared.Entity] struct {
	Kind        Kind
	ListingPath string
	Decode      DecodeFunc[T]
	Store       Store[T]
	// Attach is optional
	Attach AttachFunc[T]
}

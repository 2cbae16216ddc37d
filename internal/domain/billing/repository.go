package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// InvoiceRepository persists invoices and serves the invoice listing
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindFiltered(ctx context.Context, q shared.ListQuery) ([]InvoiceRow, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	FindLatest(ctx context.Context, limit int) ([]LatestInvoice, error)
	Count(ctx context.Context) (int64, error)
	SumByStatus(ctx context.Context) (StatusTotals, error)
}

// RevenueRepository reads the monthly revenue series
type RevenueRepository interface {
	FindAll(ctx context.Context) ([]Revenue, error)
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// InvoiceRow is one line of the invoices table, joined with its customer
type InvoiceRow struct {
	ID          uuid.UUID
	Amount      valueobject.Cents
	InvoiceDate time.Time
	Status      InvoiceStatus
	Name        string
	Email       string
	ImageURL    string
}

// LatestInvoice is an entry of the "latest invoices" dashboard widget
type LatestInvoice struct {
	ID       uuid.UUID
	Amount   valueobject.Cents
	Name     string
	Email    string
	ImageURL string
}

// StatusTotals are the collected and pending sums shown on the dashboard cards
type StatusTotals struct {
	Paid    valueobject.Cents
	Pending valueobject.Cents
}

// Revenue is one month of the revenue chart
type Revenue struct {
	Month   string
	Revenue int64
}

package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// IsValid reports whether the status is one the dashboard knows about
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// DateLayout is the format invoice and expense dates travel in
const DateLayout = "2006-01-02"

// Invoice is a bill issued to a customer
type Invoice struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Amount     valueobject.Cents
	Status     InvoiceStatus
	Date       time.Time
}

// NewInvoice creates an invoice, enforcing the same rules the form schema checks
func NewInvoice(id, customerID uuid.UUID, amount valueobject.Cents, status InvoiceStatus, date time.Time) (*Invoice, error) {
	inv := &Invoice{BaseEntity: shared.BaseEntity{ID: id}}
	if err := inv.apply(customerID, amount, status, date); err != nil {
		return nil, err
	}
	return inv, nil
}

func (i *Invoice) apply(customerID uuid.UUID, amount valueobject.Cents, status InvoiceStatus, date time.Time) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Invoice must reference a customer")
	}
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}
	if !amount.WithinLimit() {
		return shared.ErrAmountTooLarge
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invoice status must be pending or paid")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Invoice date is required")
	}
	i.CustomerID = customerID
	i.Amount = amount
	i.Status = InvoiceStatus(strings.ToLower(string(status)))
	i.Date = date
	return nil
}

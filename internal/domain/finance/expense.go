package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// Expense is money spent by the business
type Expense struct {
	shared.BaseEntity
	Name        string
	Type        string
	Amount      valueobject.Cents
	ExpenseDate time.Time
	Comments    string
}

// NewExpense creates an expense
func NewExpense(id uuid.UUID, name, expenseType string, amount valueobject.Cents, date time.Time, comments string) (*Expense, error) {
	e := &Expense{BaseEntity: shared.BaseEntity{ID: id}}
	if err := e.Update(name, expenseType, amount, date, comments); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces all editable fields
func (e *Expense) Update(name, expenseType string, amount valueobject.Cents, date time.Time, comments string) error {
	name = strings.TrimSpace(name)
	expenseType = strings.TrimSpace(expenseType)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Expense name cannot be empty")
	}
	if expenseType == "" {
		return shared.NewDomainError("INVALID_TYPE", "Expense type cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}
	if !amount.WithinLimit() {
		return shared.ErrAmountTooLarge
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	e.Name = name
	e.Type = expenseType
	e.Amount = amount
	e.ExpenseDate = date
	e.Comments = strings.TrimSpace(comments)
	return nil
}

// ExpenseRepository persists expenses and serves the expense listing
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindFiltered(ctx context.Context, q shared.ListQuery) ([]Expense, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	Total(ctx context.Context) (valueobject.Cents, error)
}

package models

import (
	"time"

	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// ExpenseModel is the persistence model for the Expense domain entity
type ExpenseModel struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null"`
	Type        string    `gorm:"type:varchar(255);not null"`
	Amount      int64     `gorm:"not null"` // cents
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null"`
	Comments    string    `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Type:        m.Type,
		Amount:      valueobject.Cents(m.Amount),
		ExpenseDate: m.ExpenseDate,
		Comments:    m.Comments,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.Type = e.Type
	m.Amount = int64(e.Amount)
	m.ExpenseDate = e.ExpenseDate
	m.Comments = e.Comments
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

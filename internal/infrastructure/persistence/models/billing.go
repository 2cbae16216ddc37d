package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice domain entity
type InvoiceModel struct {
	BaseModel
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      int64                 `gorm:"not null"` // cents
	Status      billing.InvoiceStatus `gorm:"type:varchar(255);not null"`
	InvoiceDate time.Time             `gorm:"column:invoice_date;type:date;not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Amount:     valueobject.Cents(m.Amount),
		Status:     m.Status,
		Date:       m.InvoiceDate,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.CustomerID = i.CustomerID
	m.Amount = int64(i.Amount)
	m.Status = i.Status
	m.InvoiceDate = i.Date
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// RevenueModel is one row of the monthly revenue table
type RevenueModel struct {
	Month   string `gorm:"type:varchar(4);not null;uniqueIndex"`
	Revenue int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RevenueModel) TableName() string {
	return "revenue"
}

// ToDomain converts the persistence model to a domain Revenue
func (m *RevenueModel) ToDomain() billing.Revenue {
	return billing.Revenue{Month: m.Month, Revenue: m.Revenue}
}

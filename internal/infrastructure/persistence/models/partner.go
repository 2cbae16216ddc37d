package models

import (
	"time"

	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity
type CustomerModel struct {
	BaseModel
	Name     string     `gorm:"type:varchar(255);not null"`
	Email    string     `gorm:"type:varchar(255);not null"`
	ImageURL string     `gorm:"column:image_url;type:varchar(255);not null"`
	Date     *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		ImageURL:   m.ImageURL,
	}
	if m.Date != nil {
		c.Date = m.Date.Format(billing.DateLayout)
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.ImageURL = c.ImageURL
	m.Date = nil
	if d, err := time.Parse(billing.DateLayout, c.Date); err == nil {
		m.Date = &d
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ContactModel is the persistence model for the Contact domain entity
type ContactModel struct {
	BaseModel
	FirstName string    `gorm:"type:varchar(255);not null"`
	LastName  string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(50);not null;default:''"`
	Comments  string    `gorm:"type:text;not null;default:''"`
	Created   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Phone:      m.Phone,
		Comments:   m.Comments,
		Created:    m.Created,
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Comments = c.Comments
	m.Created = c.Created
}

// ContactModelFromDomain creates a new persistence model from a domain Contact
func ContactModelFromDomain(c *partner.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

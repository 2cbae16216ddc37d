package models

import (
	"github.com/invoicedash/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity
type UserModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:text;not null;uniqueIndex"`
	Password string `gorm:"type:text;not null"` // bcrypt hash
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.Password = u.PasswordHash
}

package models

import (
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
)

// BaseModel holds the primary key shared by all tables
type BaseModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
}

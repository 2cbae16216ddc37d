package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var contactSearchColumns = []string{"first_name", "last_name", "email", "phone", "comments"}

// GormContactRepository implements partner.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create inserts a new contact
func (r *GormContactRepository) Create(ctx context.Context, contact *partner.Contact) error {
	return r.db.WithContext(ctx).Create(models.ContactModelFromDomain(contact)).Error
}

// Update writes every editable field; the created timestamp is kept
func (r *GormContactRepository) Update(ctx context.Context, contact *partner.Contact) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("id = ?", contact.ID).
		Updates(map[string]interface{}{
			"first_name": contact.FirstName,
			"last_name":  contact.LastName,
			"email":      contact.Email,
			"phone":      contact.Phone,
			"comments":   contact.Comments,
		})
	return affected(result)
}

// Delete removes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id))
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindFiltered returns one page of contacts matching the search text,
// most recent first
func (r *GormContactRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]partner.Contact, error) {
	var rows []models.ContactModel
	err := r.db.WithContext(ctx).
		Scopes(search(q.Pattern(), contactSearchColumns...), page(q)).
		Order("created DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	contacts := make([]partner.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, nil
}

// CountFiltered counts contacts matching the search text
func (r *GormContactRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Scopes(search(shared.NewListQuery(query, 1).Pattern(), contactSearchColumns...)).
		Count(&count).Error
	return count, err
}

// Ensure GormContactRepository implements partner.ContactRepository
var _ partner.ContactRepository = (*GormContactRepository)(nil)

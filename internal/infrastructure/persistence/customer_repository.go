package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var customerSearchColumns = []string{"customers.name", "customers.email"}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error
}

// Update writes name and email; the avatar and registration date are kept
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"name":  customer.Name,
			"email": customer.Email,
		})
	return affected(result)
}

// Delete removes a customer. Its invoices go with it (ON DELETE CASCADE).
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id))
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindFiltered returns one page of customers with their invoice totals,
// ordered by name
func (r *GormCustomerRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]partner.CustomerRow, error) {
	var rows []partner.CustomerRow
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("customers.id, customers.name, customers.email, customers.image_url, " +
			"COUNT(invoices.id) AS total_invoices, " +
			"COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS total_pending, " +
			"COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS total_paid").
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id").
		Scopes(search(q.Pattern(), customerSearchColumns...), page(q)).
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountFiltered counts customers matching the search text
func (r *GormCustomerRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(search(shared.NewListQuery(query, 1).Pattern(), customerSearchColumns...)).
		Count(&count).Error
	return count, err
}

// FindOptions returns every customer id and name for the invoice form
func (r *GormCustomerRepository) FindOptions(ctx context.Context) ([]partner.CustomerOption, error) {
	var options []partner.CustomerOption
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select("id, name").
		Order("name ASC").
		Scan(&options).Error
	return options, err
}

// Count returns the number of customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error
	return count, err
}

// Ensure GormCustomerRepository implements partner.CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

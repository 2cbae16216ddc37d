package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var expenseSearchColumns = []string{"name", "type", "amount::text", "comments"}

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create inserts a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(expense)).Error
}

// Update writes every editable field
func (r *GormExpenseRepository) Update(ctx context.Context, expense *finance.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Where("id = ?", expense.ID).
		Updates(map[string]interface{}{
			"name":         expense.Name,
			"type":         expense.Type,
			"amount":       int64(expense.Amount),
			"expense_date": expense.ExpenseDate,
			"comments":     expense.Comments,
		})
	return affected(result)
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id))
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindFiltered returns one page of expenses matching the search text,
// oldest first
func (r *GormExpenseRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]finance.Expense, error) {
	var rows []models.ExpenseModel
	err := r.db.WithContext(ctx).
		Scopes(search(q.Pattern(), expenseSearchColumns...), page(q)).
		Order("expense_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	expenses := make([]finance.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, nil
}

// CountFiltered counts expenses matching the search text
func (r *GormExpenseRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Scopes(search(shared.NewListQuery(query, 1).Pattern(), expenseSearchColumns...)).
		Count(&count).Error
	return count, err
}

// Total sums every expense; an empty table sums to 0
func (r *GormExpenseRepository) Total(ctx context.Context) (valueobject.Cents, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return valueobject.Cents(total), err
}

// Ensure GormExpenseRepository implements finance.ExpenseRepository
var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// invoiceSearchColumns are matched by the invoices search box
var invoiceSearchColumns = []string{
	"customers.name",
	"customers.email",
	"invoices.amount::text",
	"invoices.invoice_date::text",
	"invoices.status",
}

const invoiceJoin = "JOIN customers ON invoices.customer_id = customers.id"

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error
}

// Update writes customer, amount, status and date
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"customer_id":  invoice.CustomerID,
			"amount":       int64(invoice.Amount),
			"status":       invoice.Status,
			"invoice_date": invoice.Date,
		})
	return affected(result)
}

// Delete removes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id))
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

type invoiceRowRecord struct {
	ID          uuid.UUID
	Amount      int64
	InvoiceDate time.Time
	Status      string
	Name        string
	Email       string
	ImageURL    string
}

// FindFiltered returns one page of invoices matching the search text,
// newest first
func (r *GormInvoiceRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]billing.InvoiceRow, error) {
	var records []invoiceRowRecord
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.id, invoices.amount, invoices.invoice_date, invoices.status, " +
			"customers.name, customers.email, customers.image_url").
		Joins(invoiceJoin).
		Scopes(search(q.Pattern(), invoiceSearchColumns...), page(q)).
		Order("invoices.invoice_date DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	rows := make([]billing.InvoiceRow, len(records))
	for i, rec := range records {
		rows[i] = billing.InvoiceRow{
			ID:          rec.ID,
			Amount:      valueobject.Cents(rec.Amount),
			InvoiceDate: rec.InvoiceDate,
			Status:      billing.InvoiceStatus(rec.Status),
			Name:        rec.Name,
			Email:       rec.Email,
			ImageURL:    rec.ImageURL,
		}
	}
	return rows, nil
}

// CountFiltered counts invoices matching the search text
func (r *GormInvoiceRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("invoices").
		Joins(invoiceJoin).
		Scopes(search(shared.NewListQuery(query, 1).Pattern(), invoiceSearchColumns...)).
		Count(&count).Error
	return count, err
}

type latestInvoiceRecord struct {
	ID       uuid.UUID
	Amount   int64
	Name     string
	Email    string
	ImageURL string
}

// FindLatest returns the most recent invoices with their customer
func (r *GormInvoiceRepository) FindLatest(ctx context.Context, limit int) ([]billing.LatestInvoice, error) {
	var records []latestInvoiceRecord
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.id, invoices.amount, customers.name, customers.image_url, customers.email").
		Joins(invoiceJoin).
		Order("invoices.invoice_date DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	latest := make([]billing.LatestInvoice, len(records))
	for i, rec := range records {
		latest[i] = billing.LatestInvoice{
			ID:       rec.ID,
			Amount:   valueobject.Cents(rec.Amount),
			Name:     rec.Name,
			Email:    rec.Email,
			ImageURL: rec.ImageURL,
		}
	}
	return latest, nil
}

// Count returns the number of invoices
func (r *GormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Count(&count).Error
	return count, err
}

// SumByStatus returns the paid and pending totals; an empty table sums to 0
func (r *GormInvoiceRepository) SumByStatus(ctx context.Context) (billing.StatusTotals, error) {
	var sums struct {
		Paid    int64
		Pending int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid, " +
			"COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending").
		Scan(&sums).Error
	if err != nil {
		return billing.StatusTotals{}, err
	}
	return billing.StatusTotals{
		Paid:    valueobject.Cents(sums.Paid),
		Pending: valueobject.Cents(sums.Pending),
	}, nil
}

// Ensure GormInvoiceRepository implements billing.InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormRevenueRepository implements billing.RevenueRepository using GORM
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewGormRevenueRepository creates a new GormRevenueRepository
func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

// FindAll returns every month of the revenue chart
func (r *GormRevenueRepository) FindAll(ctx context.Context) ([]billing.Revenue, error) {
	var rows []models.RevenueModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	revenue := make([]billing.Revenue, len(rows))
	for i := range rows {
		revenue[i] = rows[i].ToDomain()
	}
	return revenue, nil
}

var _ billing.RevenueRepository = (*GormRevenueRepository)(nil)

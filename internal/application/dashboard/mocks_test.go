package dashboard

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]billing.InvoiceRow, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]billing.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindLatest(ctx context.Context, limit int) ([]billing.LatestInvoice, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]billing.LatestInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumByStatus(ctx context.Context) (billing.StatusTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(billing.StatusTotals), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]partner.CustomerRow, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]partner.CustomerRow), args.Error(1)
}

func (m *MockCustomerRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindOptions(ctx context.Context) ([]partner.CustomerOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.CustomerOption), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *finance.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindFiltered(ctx context.Context, q shared.ListQuery) ([]finance.Expense, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Total(ctx context.Context) (valueobject.Cents, error) {
	args := m.Called(ctx)
	return args.Get(0).(valueobject.Cents), args.Error(1)
}

// memoryCache is a ListingCache keeping JSON in a map
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generations map[string]int64
	invalidated []string
	// beforeSet runs between the load and the write of a miss
	beforeSet func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, generations: map[string]int64{}}
}

func (c *memoryCache) Get(_ context.Context, path, key string, dest interface{}) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[path]
	data, ok := c.entries[path+"|"+key]
	if !ok {
		return false, gen, nil
	}
	return true, gen, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, path, key string, gen int64, value interface{}) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[path] != gen {
		return nil
	}
	c.entries[path+"|"+key] = data
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, path)
	c.generations[path]++
	for k := range c.entries {
		if len(k) > len(path) && k[:len(path)+1] == path+"|" {
			delete(c.entries, k)
		}
	}
	return nil
}

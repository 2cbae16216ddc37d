package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/application/mutation"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryService_CardData(t *testing.T) {
	ctx := context.Background()

	t.Run("formats totals as currency", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		customers := new(MockCustomerRepository)
		expenses := new(MockExpenseRepository)
		svc := NewQueryService(Repositories{Invoices: invoices, Customers: customers, Expenses: expenses}, nil, nil)

		invoices.On("Count", mock.Anything).Return(int64(13), nil)
		customers.On("Count", mock.Anything).Return(int64(8), nil)
		invoices.On("SumByStatus", mock.Anything).Return(billing.StatusTotals{Paid: 123456, Pending: 0}, nil)
		expenses.On("Total", mock.Anything).Return(valueobject.Cents(99), nil)

		cards, err := svc.CardData(ctx)

		require.NoError(t, err)
		assert.Equal(t, &CardData{
			NumberOfInvoices:     13,
			NumberOfCustomers:    8,
			TotalPaidInvoices:    "$1,234.56",
			TotalPendingInvoices: "$0.00",
			TotalExpenses:        "$0.99",
		}, cards)
	})

	t.Run("any failing query fails the cards", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		customers := new(MockCustomerRepository)
		expenses := new(MockExpenseRepository)
		svc := NewQueryService(Repositories{Invoices: invoices, Customers: customers, Expenses: expenses}, nil, nil)

		invoices.On("Count", mock.Anything).Return(int64(0), nil)
		customers.On("Count", mock.Anything).Return(int64(0), errors.New("boom"))
		invoices.On("SumByStatus", mock.Anything).Return(billing.StatusTotals{}, nil)
		expenses.On("Total", mock.Anything).Return(valueobject.Cents(0), nil)

		cards, err := svc.CardData(ctx)

		assert.Nil(t, cards)
		assert.ErrorContains(t, err, "failed to fetch card data")
	})
}

func TestQueryService_ListInvoices(t *testing.T) {
	ctx := context.Background()
	q := shared.NewListQuery("lee", 2)
	row := billing.InvoiceRow{
		ID:          uuid.New(),
		Amount:      15795,
		InvoiceDate: time.Date(2023, 12, 6, 0, 0, 0, 0, time.UTC),
		Status:      billing.InvoiceStatusPending,
		Name:        "Delba de Oliveira",
		Email:       "delba@oliveira.com",
		ImageURL:    "/customers/delba-de-oliveira.png",
	}

	invoices := new(MockInvoiceRepository)
	cache := newMemoryCache()
	svc := NewQueryService(Repositories{Invoices: invoices}, cache, nil)

	invoices.On("FindFiltered", mock.Anything, q).Return([]billing.InvoiceRow{row}, nil).Once()
	invoices.On("CountFiltered", mock.Anything, "lee").Return(int64(13), nil).Once()

	page, err := svc.ListInvoices(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "$157.95", page.Items[0].AmountDisplay)
	assert.Equal(t, "2023-12-06", page.Items[0].Date)

	// Second read is served from the cache
	again, err := svc.ListInvoices(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, page, again)
	invoices.AssertExpectations(t)

	// Invalidation forces a reload
	require.NoError(t, cache.Invalidate(ctx, InvoicesPath))
	invoices.On("FindFiltered", mock.Anything, q).Return([]billing.InvoiceRow{}, nil).Once()
	invoices.On("CountFiltered", mock.Anything, "lee").Return(int64(0), nil).Once()

	empty, err := svc.ListInvoices(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)
}

func TestQueryService_InvalidationDuringLoad(t *testing.T) {
	ctx := context.Background()
	q := shared.NewListQuery("", 1)

	invoices := new(MockInvoiceRepository)
	cache := newMemoryCache()
	svc := NewQueryService(Repositories{Invoices: invoices}, cache, nil)

	stale := billing.InvoiceRow{ID: uuid.New(), Amount: 100, Status: billing.InvoiceStatusPending}
	fresh := billing.InvoiceRow{ID: uuid.New(), Amount: 200, Status: billing.InvoiceStatusPaid}
	invoices.On("FindFiltered", mock.Anything, q).Return([]billing.InvoiceRow{stale}, nil).Once()
	invoices.On("CountFiltered", mock.Anything, "").Return(int64(1), nil).Once()

	// a mutation commits after the rows were read but before they are cached
	cache.beforeSet = func() {
		cache.beforeSet = nil
		require.NoError(t, cache.Invalidate(ctx, InvoicesPath))
	}
	first, err := svc.ListInvoices(ctx, q)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, stale.ID, first.Items[0].ID)

	invoices.On("FindFiltered", mock.Anything, q).Return([]billing.InvoiceRow{fresh}, nil).Once()
	invoices.On("CountFiltered", mock.Anything, "").Return(int64(1), nil).Once()

	second, err := svc.ListInvoices(ctx, q)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, fresh.ID, second.Items[0].ID)
	invoices.AssertExpectations(t)
}

func TestQueryService_GetInvoice(t *testing.T) {
	ctx := context.Background()
	invoices := new(MockInvoiceRepository)
	svc := NewQueryService(Repositories{Invoices: invoices}, nil, nil)

	id := uuid.New()
	inv, err := billing.NewInvoice(id, uuid.New(), 66600, billing.InvoiceStatusPaid, time.Date(2023, 6, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	invoices.On("FindByID", mock.Anything, id).Return(inv, nil)

	missing := uuid.New()
	invoices.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	form, err := svc.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 666.0, form.Amount, 0.001)
	assert.Equal(t, "2023-06-27", form.Date)

	_, err = svc.GetInvoice(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvalidationHandler(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	h := NewInvalidationHandler(cache, nil)

	assert.Equal(t, []string{mutation.EventTypeMutationCommitted}, h.EventTypes())

	require.NoError(t, h.Handle(ctx, mutation.NewMutationCommitted(mutation.KindInvoice, mutation.ActionCreate, uuid.New(), mutation.InvoicesPath)))
	assert.Equal(t, []string{OverviewPath, CustomersPath}, cache.invalidated)

	cache.invalidated = nil
	require.NoError(t, h.Handle(ctx, mutation.NewMutationCommitted(mutation.KindContact, mutation.ActionDelete, uuid.New(), mutation.ContactsPath)))
	assert.Empty(t, cache.invalidated)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/application/dashboard"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboardQueries is a mock implementation of DashboardQueries
type MockDashboardQueries struct {
	mock.Mock
}

func (m *MockDashboardQueries) CardData(ctx context.Context) (*dashboard.CardData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.CardData), args.Error(1)
}

func (m *MockDashboardQueries) Revenue(ctx context.Context) ([]dashboard.Revenue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dashboard.Revenue), args.Error(1)
}

func (m *MockDashboardQueries) LatestInvoices(ctx context.Context) ([]dashboard.LatestInvoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dashboard.LatestInvoice), args.Error(1)
}

func (m *MockDashboardQueries) ListInvoices(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.InvoiceRow], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(shared.Paginated[dashboard.InvoiceRow]), args.Error(1)
}

func (m *MockDashboardQueries) InvoicePages(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardQueries) GetInvoice(ctx context.Context, id uuid.UUID) (*dashboard.InvoiceForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.InvoiceForm), args.Error(1)
}

func (m *MockDashboardQueries) ListCustomers(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.CustomerRow], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(shared.Paginated[dashboard.CustomerRow]), args.Error(1)
}

func (m *MockDashboardQueries) CustomerPages(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardQueries) GetCustomer(ctx context.Context, id uuid.UUID) (*dashboard.CustomerForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.CustomerForm), args.Error(1)
}

func (m *MockDashboardQueries) CustomerOptions(ctx context.Context) ([]dashboard.CustomerOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dashboard.CustomerOption), args.Error(1)
}

func (m *MockDashboardQueries) ListExpenses(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.ExpenseRow], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(shared.Paginated[dashboard.ExpenseRow]), args.Error(1)
}

func (m *MockDashboardQueries) ExpensePages(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardQueries) GetExpense(ctx context.Context, id uuid.UUID) (*dashboard.ExpenseRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.ExpenseRow), args.Error(1)
}

func (m *MockDashboardQueries) ListContacts(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.ContactRow], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(shared.Paginated[dashboard.ContactRow]), args.Error(1)
}

func (m *MockDashboardQueries) GetContact(ctx context.Context, id uuid.UUID) (*dashboard.ContactRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.ContactRow), args.Error(1)
}

func newDashboardRouter(q DashboardQueries) *gin.Engine {
	middleware.SetupValidator()
	h := NewDashboardHandler(q)
	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/dashboard")
	api.GET("/cards", h.Cards)
	api.GET("/revenue", h.Revenue)
	api.GET("/latest-invoices", h.LatestInvoices)
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/pages", h.InvoicePages)
	api.GET("/invoices/:id", h.GetInvoice)
	api.GET("/customers", h.ListCustomers)
	api.GET("/customers/options", h.CustomerOptions)
	api.GET("/contacts/:id", h.GetContact)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestDashboardHandler_ListInvoices(t *testing.T) {
	q := new(MockDashboardQueries)
	row := dashboard.InvoiceRow{ID: uuid.New(), Name: "Delba de Oliveira", AmountDisplay: "$89.45", Status: "paid"}
	q.On("ListInvoices", mock.Anything, shared.ListQuery{Query: "delba", Page: 2}).
		Return(shared.NewPaginated([]dashboard.InvoiceRow{row}, 7, 2), nil)

	w := get(newDashboardRouter(q), "/api/dashboard/invoices?query=delba&page=2")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, dto.Meta{Total: 7, Page: 2, PageSize: shared.ItemsPerPage, TotalPages: 2}, *resp.Meta)
	items := resp.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Delba de Oliveira", items[0].(map[string]any)["name"])
	q.AssertExpectations(t)
}

func TestDashboardHandler_ListDefaultsToFirstPage(t *testing.T) {
	q := new(MockDashboardQueries)
	q.On("ListCustomers", mock.Anything, shared.ListQuery{Query: "", Page: 1}).
		Return(shared.NewPaginated[dashboard.CustomerRow](nil, 0, 1), nil)

	w := get(newDashboardRouter(q), "/api/dashboard/customers")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []any{}, resp.Data)
	q.AssertExpectations(t)
}

func TestDashboardHandler_ListRejectsBadPage(t *testing.T) {
	for _, page := range []string{"-1", "1000001", "1537228672809129302"} {
		t.Run(page, func(t *testing.T) {
			q := new(MockDashboardQueries)

			w := get(newDashboardRouter(q), "/api/dashboard/invoices?page="+page)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
			q.AssertNotCalled(t, "ListInvoices", mock.Anything, mock.Anything)
		})
	}
}

func TestDashboardHandler_InvoicePages(t *testing.T) {
	q := new(MockDashboardQueries)
	q.On("InvoicePages", mock.Anything, "pending").Return(3, nil)

	w := get(newDashboardRouter(q), "/api/dashboard/invoices/pages?query=pending")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, float64(3), data["total_pages"])
}

func TestDashboardHandler_GetInvoice(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		q := new(MockDashboardQueries)
		q.On("GetInvoice", mock.Anything, id).Return(&dashboard.InvoiceForm{ID: id, Amount: 157.95, Status: "pending"}, nil)

		w := get(newDashboardRouter(q), "/api/dashboard/invoices/"+id.String())

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, 157.95, data["amount"])
	})

	t.Run("missing", func(t *testing.T) {
		q := new(MockDashboardQueries)
		q.On("GetInvoice", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w := get(newDashboardRouter(q), "/api/dashboard/invoices/"+id.String())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		q := new(MockDashboardQueries)

		w := get(newDashboardRouter(q), "/api/dashboard/contacts/not-a-uuid")
		assert.Equal(t, http.StatusNotFound, w.Code)
		q.AssertNotCalled(t, "GetContact", mock.Anything, mock.Anything)
	})
}

func TestDashboardHandler_Overview(t *testing.T) {
	q := new(MockDashboardQueries)
	q.On("CardData", mock.Anything).Return(&dashboard.CardData{NumberOfInvoices: 13, TotalPaidInvoices: "$1,239.85"}, nil)
	q.On("Revenue", mock.Anything).Return([]dashboard.Revenue{{Month: "Jan", Revenue: 2000}}, nil)
	q.On("LatestInvoices", mock.Anything).Return([]dashboard.LatestInvoice{{Name: "Lee Robinson", Amount: "$448.00"}}, nil)
	q.On("CustomerOptions", mock.Anything).Return([]dashboard.CustomerOption{{ID: uuid.New(), Name: "Amy Burns"}}, nil)
	r := newDashboardRouter(q)

	cards := decodeResponse(t, get(r, "/api/dashboard/cards")).Data.(map[string]any)
	assert.Equal(t, float64(13), cards["number_of_invoices"])
	assert.Equal(t, "$1,239.85", cards["total_paid_invoices"])

	revenue := decodeResponse(t, get(r, "/api/dashboard/revenue")).Data.([]any)
	assert.Len(t, revenue, 1)

	latest := decodeResponse(t, get(r, "/api/dashboard/latest-invoices")).Data.([]any)
	assert.Equal(t, "Lee Robinson", latest[0].(map[string]any)["name"])

	options := decodeResponse(t, get(r, "/api/dashboard/customers/options")).Data.([]any)
	assert.Equal(t, "Amy Burns", options[0].(map[string]any)["name"])
}

func TestDashboardHandler_QueryFailure(t *testing.T) {
	q := new(MockDashboardQueries)
	q.On("CardData", mock.Anything).Return(nil, errors.New("failed to fetch card data: connection refused"))

	w := get(newDashboardRouter(q), "/api/dashboard/cards")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

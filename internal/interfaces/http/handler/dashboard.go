package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/application/dashboard"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
)

// DashboardQueries is the read side behind the dashboard pages
type DashboardQueries interface {
	CardData(ctx context.Context) (*dashboard.CardData, error)
	Revenue(ctx context.Context) ([]dashboard.Revenue, error)
	LatestInvoices(ctx context.Context) ([]dashboard.LatestInvoice, error)

	ListInvoices(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.InvoiceRow], error)
	InvoicePages(ctx context.Context, query string) (int, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dashboard.InvoiceForm, error)

	ListCustomers(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.CustomerRow], error)
	CustomerPages(ctx context.Context, query string) (int, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dashboard.CustomerForm, error)
	CustomerOptions(ctx context.Context) ([]dashboard.CustomerOption, error)

	ListExpenses(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.ExpenseRow], error)
	ExpensePages(ctx context.Context, query string) (int, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*dashboard.ExpenseRow, error)

	ListContacts(ctx context.Context, q shared.ListQuery) (shared.Paginated[dashboard.ContactRow], error)
	GetContact(ctx context.Context, id uuid.UUID) (*dashboard.ContactRow, error)
}

var _ DashboardQueries = (*dashboard.QueryService)(nil)

// DashboardHandler serves the JSON data behind the dashboard pages
type DashboardHandler struct {
	BaseHandler
	queries DashboardQueries
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(queries DashboardQueries) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// PagesResponse is the page count of a filtered table
type PagesResponse struct {
	TotalPages int `json:"total_pages"`
}

// Cards returns the overview summary cards
func (h *DashboardHandler) Cards(c *gin.Context) {
	cards, err := h.queries.CardData(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cards)
}

// Revenue returns the monthly revenue chart data
func (h *DashboardHandler) Revenue(c *gin.Context) {
	revenue, err := h.queries.Revenue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenue)
}

// LatestInvoices returns the latest invoices widget
func (h *DashboardHandler) LatestInvoices(c *gin.Context) {
	items, err := h.queries.LatestInvoices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListInvoices returns one page of the invoices table
func (h *DashboardHandler) ListInvoices(c *gin.Context) {
	listPage(h, c, h.queries.ListInvoices)
}

// InvoicePages returns the invoice page count for the search text
func (h *DashboardHandler) InvoicePages(c *gin.Context) {
	pageCount(h, c, h.queries.InvoicePages)
}

// GetInvoice returns one invoice for the edit form
func (h *DashboardHandler) GetInvoice(c *gin.Context) {
	getByID(h, c, h.queries.GetInvoice)
}

// ListCustomers returns one page of the customers table
func (h *DashboardHandler) ListCustomers(c *gin.Context) {
	listPage(h, c, h.queries.ListCustomers)
}

// CustomerPages returns the customer page count for the search text
func (h *DashboardHandler) CustomerPages(c *gin.Context) {
	pageCount(h, c, h.queries.CustomerPages)
}

// GetCustomer returns one customer for the edit form
func (h *DashboardHandler) GetCustomer(c *gin.Context) {
	getByID(h, c, h.queries.GetCustomer)
}

// CustomerOptions returns the customer select entries
func (h *DashboardHandler) CustomerOptions(c *gin.Context) {
	options, err := h.queries.CustomerOptions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// ListExpenses returns one page of the expenses table
func (h *DashboardHandler) ListExpenses(c *gin.Context) {
	listPage(h, c, h.queries.ListExpenses)
}

// ExpensePages returns the expense page count for the search text
func (h *DashboardHandler) ExpensePages(c *gin.Context) {
	pageCount(h, c, h.queries.ExpensePages)
}

// GetExpense returns one expense for the edit form
func (h *DashboardHandler) GetExpense(c *gin.Context) {
	getByID(h, c, h.queries.GetExpense)
}

// ListContacts returns one page of the contacts table
func (h *DashboardHandler) ListContacts(c *gin.Context) {
	listPage(h, c, h.queries.ListContacts)
}

// GetContact returns one contact for the edit form
func (h *DashboardHandler) GetContact(c *gin.Context) {
	getByID(h, c, h.queries.GetContact)
}

func bindList(h *DashboardHandler, c *gin.Context) (shared.ListQuery, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.ListQuery{}, false
	}
	return shared.NewListQuery(req.Query, req.Page), true
}

func listPage[T any](h *DashboardHandler, c *gin.Context, list func(context.Context, shared.ListQuery) (shared.Paginated[T], error)) {
	q, ok := bindList(h, c)
	if !ok {
		return
	}
	page, err := list(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

func pageCount(h *DashboardHandler, c *gin.Context, count func(context.Context, string) (int, error)) {
	q, ok := bindList(h, c)
	if !ok {
		return
	}
	pages, err := count(c.Request.Context(), q.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PagesResponse{TotalPages: pages})
}

// getByID treats a malformed id like a missing record
func getByID[T any](h *DashboardHandler, c *gin.Context, get func(context.Context, uuid.UUID) (*T, error)) {
	id, err := shared.ParseID(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	item, err := get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

package dashboard

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/billing"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Paths the read side caches under. Listing paths match the pages the
// mutation pipeline invalidates.
const (
	OverviewPath  = "/dashboard"
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
	ExpensesPath  = "/dashboard/expenses"
	ContactsPath  = "/dashboard/contacts"
)

// LatestInvoicesLimit is the size of the latest invoices widget
const LatestInvoicesLimit = 5

// ListingCache caches rendered listing data per page path
type ListingCache interface {
	// Get loads a cached value into dest, reporting whether it was found
	// and the generation of path it read
	Get(ctx context.Context, path, key string, dest interface{}) (found bool, generation int64, err error)
	// Set stores value unless path was invalidated since generation
	Set(ctx context.Context, path, key string, generation int64, value interface{}) error
	// Invalidate drops every entry cached under path
	Invalidate(ctx context.Context, path string) error
}

// Repositories groups the read dependencies of the service
type Repositories struct {
	Invoices  billing.InvoiceRepository
	Revenue   billing.RevenueRepository
	Customers partner.CustomerRepository
	Contacts  partner.ContactRepository
	Expenses  finance.ExpenseRepository
}

// QueryService serves the dashboard pages
type QueryService struct {
	repos  Repositories
	cache  ListingCache
	logger *zap.Logger
}

// NewQueryService creates a new QueryService. cache may be nil.
func NewQueryService(repos Repositories, cache ListingCache, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{repos: repos, cache: cache, logger: logger}
}

// ListInvoices returns one page of invoices matching the search text
func (s *QueryService) ListInvoices(ctx context.Context, q shared.ListQuery) (shared.Paginated[InvoiceRow], error) {
	return cached(ctx, s, InvoicesPath, listingKey(q), func(ctx context.Context) (shared.Paginated[InvoiceRow], error) {
		rows, err := s.repos.Invoices.FindFiltered(ctx, q)
		if err != nil {
			return shared.Paginated[InvoiceRow]{}, fmt.Errorf("failed to fetch invoices: %w", err)
		}
		total, err := s.repos.Invoices.CountFiltered(ctx, q.Query)
		if err != nil {
			return shared.Paginated[InvoiceRow]{}, fmt.Errorf("failed to count invoices: %w", err)
		}
		items := make([]InvoiceRow, 0, len(rows))
		for _, r := range rows {
			items = append(items, toInvoiceRow(r))
		}
		return shared.NewPaginated(items, total, q.Page), nil
	})
}

// InvoicePages returns the number of invoice pages for the search text
func (s *QueryService) InvoicePages(ctx context.Context, query string) (int, error) {
	total, err := s.repos.Invoices.CountFiltered(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch total number of invoices: %w", err)
	}
	return shared.TotalPages(total), nil
}

// GetInvoice returns an invoice for the edit form
func (s *QueryService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceForm, error) {
	inv, err := s.repos.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form := toInvoiceForm(inv)
	return &form, nil
}

// LatestInvoices returns the most recent invoices
func (s *QueryService) LatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	return cached(ctx, s, OverviewPath, "latest-invoices", func(ctx context.Context) ([]LatestInvoice, error) {
		rows, err := s.repos.Invoices.FindLatest(ctx, LatestInvoicesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch the latest invoices: %w", err)
		}
		items := make([]LatestInvoice, 0, len(rows))
		for _, r := range rows {
			items = append(items, toLatestInvoice(r))
		}
		return items, nil
	})
}

// ListCustomers returns one page of customers with their invoice totals
func (s *QueryService) ListCustomers(ctx context.Context, q shared.ListQuery) (shared.Paginated[CustomerRow], error) {
	return cached(ctx, s, CustomersPath, listingKey(q), func(ctx context.Context) (shared.Paginated[CustomerRow], error) {
		rows, err := s.repos.Customers.FindFiltered(ctx, q)
		if err != nil {
			return shared.Paginated[CustomerRow]{}, fmt.Errorf("failed to fetch customers: %w", err)
		}
		total, err := s.repos.Customers.CountFiltered(ctx, q.Query)
		if err != nil {
			return shared.Paginated[CustomerRow]{}, fmt.Errorf("failed to count customers: %w", err)
		}
		items := make([]CustomerRow, 0, len(rows))
		for _, r := range rows {
			items = append(items, toCustomerRow(r))
		}
		return shared.NewPaginated(items, total, q.Page), nil
	})
}

// CustomerPages returns the number of customer pages for the search text
func (s *QueryService) CustomerPages(ctx context.Context, query string) (int, error) {
	total, err := s.repos.Customers.CountFiltered(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch total number of customers: %w", err)
	}
	return shared.TotalPages(total), nil
}

// GetCustomer returns a customer for the edit form
func (s *QueryService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerForm, error) {
	c, err := s.repos.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form := toCustomerForm(c)
	return &form, nil
}

// CustomerOptions returns every customer for the invoice form select
func (s *QueryService) CustomerOptions(ctx context.Context) ([]CustomerOption, error) {
	opts, err := s.repos.Customers.FindOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all customers: %w", err)
	}
	items := make([]CustomerOption, 0, len(opts))
	for _, o := range opts {
		items = append(items, CustomerOption{ID: o.ID, Name: o.Name})
	}
	return items, nil
}

// ListExpenses returns one page of expenses
func (s *QueryService) ListExpenses(ctx context.Context, q shared.ListQuery) (shared.Paginated[ExpenseRow], error) {
	return cached(ctx, s, ExpensesPath, listingKey(q), func(ctx context.Context) (shared.Paginated[ExpenseRow], error) {
		rows, err := s.repos.Expenses.FindFiltered(ctx, q)
		if err != nil {
			return shared.Paginated[ExpenseRow]{}, fmt.Errorf("failed to fetch expenses: %w", err)
		}
		total, err := s.repos.Expenses.CountFiltered(ctx, q.Query)
		if err != nil {
			return shared.Paginated[ExpenseRow]{}, fmt.Errorf("failed to count expenses: %w", err)
		}
		items := make([]ExpenseRow, 0, len(rows))
		for i := range rows {
			items = append(items, toExpenseRow(&rows[i]))
		}
		return shared.NewPaginated(items, total, q.Page), nil
	})
}

// ExpensePages returns the number of expense pages for the search text
func (s *QueryService) ExpensePages(ctx context.Context, query string) (int, error) {
	total, err := s.repos.Expenses.CountFiltered(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch total number of expenses: %w", err)
	}
	return shared.TotalPages(total), nil
}

// GetExpense returns an expense for the edit form
func (s *QueryService) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseRow, error) {
	e, err := s.repos.Expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := toExpenseRow(e)
	return &row, nil
}

// ListContacts returns one page of contacts, newest first
func (s *QueryService) ListContacts(ctx context.Context, q shared.ListQuery) (shared.Paginated[ContactRow], error) {
	return cached(ctx, s, ContactsPath, listingKey(q), func(ctx context.Context) (shared.Paginated[ContactRow], error) {
		rows, err := s.repos.Contacts.FindFiltered(ctx, q)
		if err != nil {
			return shared.Paginated[ContactRow]{}, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		total, err := s.repos.Contacts.CountFiltered(ctx, q.Query)
		if err != nil {
			return shared.Paginated[ContactRow]{}, fmt.Errorf("failed to count contacts: %w", err)
		}
		items := make([]ContactRow, 0, len(rows))
		for i := range rows {
			items = append(items, toContactRow(&rows[i]))
		}
		return shared.NewPaginated(items, total, q.Page), nil
	})
}

// GetContact returns a contact for the edit form
func (s *QueryService) GetContact(ctx context.Context, id uuid.UUID) (*ContactRow, error) {
	c, err := s.repos.Contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := toContactRow(c)
	return &row, nil
}

// CardData returns the overview summary cards. The four queries run concurrently.
func (s *QueryService) CardData(ctx context.Context) (*CardData, error) {
	return cached(ctx, s, OverviewPath, "cards", func(ctx context.Context) (*CardData, error) {
		var (
			invoiceCount  int64
			customerCount int64
			totals        billing.StatusTotals
			expenses      valueobject.Cents
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := s.repos.Invoices.Count(gctx)
			invoiceCount = n
			return err
		})
		g.Go(func() error {
			n, err := s.repos.Customers.Count(gctx)
			customerCount = n
			return err
		})
		g.Go(func() error {
			t, err := s.repos.Invoices.SumByStatus(gctx)
			totals = t
			return err
		})
		g.Go(func() error {
			t, err := s.repos.Expenses.Total(gctx)
			expenses = t
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to fetch card data: %w", err)
		}

		return &CardData{
			NumberOfInvoices:     invoiceCount,
			NumberOfCustomers:    customerCount,
			TotalPaidInvoices:    totals.Paid.Display(),
			TotalPendingInvoices: totals.Pending.Display(),
			TotalExpenses:        expenses.Display(),
		}, nil
	})
}

// Revenue returns the monthly revenue series
func (s *QueryService) Revenue(ctx context.Context) ([]Revenue, error) {
	rows, err := s.repos.Revenue.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue data: %w", err)
	}
	items := make([]Revenue, 0, len(rows))
	for _, r := range rows {
		items = append(items, Revenue{Month: r.Month, Revenue: r.Revenue})
	}
	return items, nil
}

func listingKey(q shared.ListQuery) string {
	return fmt.Sprintf("q=%s&page=%d", url.QueryEscape(q.Query), q.Page)
}

// cached serves key from the listing cache, loading and storing it on a miss.
// Cache errors degrade to a direct load.
func cached[T any](ctx context.Context, s *QueryService, path, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	var hit T
	found, gen, err := s.cache.Get(ctx, path, key, &hit)
	if err != nil {
		s.logger.Warn("Listing cache read failed", zap.String("path", path), zap.Error(err))
		return load(ctx)
	}
	if found {
		return hit, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := s.cache.Set(ctx, path, key, gen, value); err != nil {
		s.logger.Warn("Listing cache write failed", zap.String("path", path), zap.Error(err))
	}
	return value, nil
}

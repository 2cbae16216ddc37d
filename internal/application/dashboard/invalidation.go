package dashboard

import (
	"context"
	"errors"

	"github.com/invoicedash/backend/internal/application/mutation"
	"github.com/invoicedash/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// dependentPaths lists the cached pages that show data of another kind:
// the overview shows invoice, customer and expense figures, the invoice
// table joins customer names and the customer table sums invoices.
var dependentPaths = map[mutation.Kind][]string{
	mutation.KindInvoice:  {OverviewPath, CustomersPath},
	mutation.KindCustomer: {OverviewPath, InvoicesPath},
	mutation.KindExpense:  {OverviewPath},
}

// InvalidationHandler drops cached pages that depend on a committed mutation
type InvalidationHandler struct {
	cache  ListingCache
	logger *zap.Logger
}

// NewInvalidationHandler creates a new InvalidationHandler
func NewInvalidationHandler(cache ListingCache, logger *zap.Logger) *InvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationHandler{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *InvalidationHandler) EventTypes() []string {
	return []string{mutation.EventTypeMutationCommitted}
}

// Handle implements shared.EventHandler
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	committed, ok := event.(*mutation.MutationCommitted)
	if !ok {
		return nil
	}

	var errs []error
	for _, path := range dependentPaths[committed.Kind] {
		if err := h.cache.Invalidate(ctx, path); err != nil {
			errs = append(errs, err)
			continue
		}
		h.logger.Debug("Invalidated dependent page",
			zap.String("path", path),
			zap.String("kind", string(committed.Kind)),
		)
	}
	return errors.Join(errs...)
}

package invoice

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for invoices.
type Repository interface {
	// Create inserts header and lines
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves an invoice with its lines
	GetByID(ctx context.Context, id id.ID) (*Invoice, error)

	// GetByNumber retrieves an invoice by number with its lines
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// GetForUpdate retrieves the header with a row lock, without lines
	GetForUpdate(ctx context.Context, id id.ID) (*Invoice, error)

	// List retrieves headers without lines
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// UpdatePaymentState rewrites paid, balance and status
	UpdatePaymentState(ctx context.Context, id id.ID, paid, balance types.Money, status Status) error

	// UpdateStatus rewrites only the status (cancel, draft promotion)
	UpdateStatus(ctx context.Context, id id.ID, status Status) error

	// SumAllocated returns the sum of payment allocations for an invoice
	SumAllocated(ctx context.Context, invoiceID id.ID) (types.Money, error)

	// SumOpenBalanceByCustomer returns the customer's receivable: the sum of
	// balance_amount over invoices in an open status
	SumOpenBalanceByCustomer(ctx context.Context, customerID id.ID) (types.Money, error)

	// ListIDs returns all invoice IDs (used by reconciliation)
	ListIDs(ctx context.Context) ([]id.ID, error)
}

// ListFilter extends the common filter with invoice-specific criteria.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	Status     *Status
}

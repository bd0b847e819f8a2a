package payment

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for payments.
type Repository interface {
	// Create inserts payment and allocation rows
	Create(ctx context.Context, p *Payment) error

	// GetByID retrieves a payment with its allocations
	GetByID(ctx context.Context, id id.ID) (*Payment, error)

	// GetByNumber retrieves a payment by number with its allocations
	GetByNumber(ctx context.Context, number string) (*Payment, error)

	// List retrieves payment headers without allocations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error)

	// HardDelete removes the payment and its allocation rows
	HardDelete(ctx context.Context, id id.ID) error
}

// ListFilter extends the common filter with payment-specific criteria.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
}

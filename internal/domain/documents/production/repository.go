package production

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for Production documents.
type Repository interface {
	// Create inserts header and input rows
	Create(ctx context.Context, p *Production) error

	// GetByID retrieves a production with its inputs
	GetByID(ctx context.Context, id id.ID) (*Production, error)

	// GetByNumber retrieves a production by number with its inputs
	GetByNumber(ctx context.Context, number string) (*Production, error)

	// List retrieves headers without inputs
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Production], error)

	// HardDelete removes the header and its input rows; posted movements
	// stay behind
	HardDelete(ctx context.Context, id id.ID) error
}

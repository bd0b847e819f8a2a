package bom

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for BOMs.
type Repository interface {
	// Create inserts header and lines
	Create(ctx context.Context, b *BOM) error

	// GetByID retrieves a BOM with its lines
	GetByID(ctx context.Context, id id.ID) (*BOM, error)

	// GetByNumber retrieves a BOM by document number with its lines
	GetByNumber(ctx context.Context, number string) (*BOM, error)

	// Update rewrites header and replaces lines (optimistic locking)
	Update(ctx context.Context, b *BOM) error

	// Delete soft-deletes a BOM
	Delete(ctx context.Context, id id.ID) error

	// List retrieves headers without lines
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BOM], error)

	// ListActiveByItem returns active BOMs producing the given item
	ListActiveByItem(ctx context.Context, itemID id.ID) ([]*BOM, error)
}

package item

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetForUpdate retrieves item with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)

	// FindLowStock retrieves items with cached stock at or below reorder level.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error)
}

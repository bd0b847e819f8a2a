package customer

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// GetForUpdate retrieves customer with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Customer, error)

	// UpdateBalance overwrites the cached current_balance.
	UpdateBalance(ctx context.Context, id id.ID, balance types.Money) error
}

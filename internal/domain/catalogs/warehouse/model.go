// Package warehouse provides the Warehouse catalog.
package warehouse

import (
	"context"

	"stockbook/internal/core/entity"
)

// Warehouse represents a physical or logical storage location.
type Warehouse struct {
	entity.Catalog

	// Location is a free-form address or site label
	Location *string `db:"location" json:"location,omitempty"`

	// IsActive allows retiring a warehouse without deleting history
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(code, name),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}

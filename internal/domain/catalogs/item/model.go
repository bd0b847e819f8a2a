// Package item provides the Item catalog: the goods tracked by the stock
// ledger, both raw materials and finished products.
package item

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/types"
)

// Item represents a stockable good.
type Item struct {
	entity.Catalog

	// Unit is the unit of measure (pcs, kg, m, ...)
	Unit string `db:"unit" json:"unit"`

	// Category is a free-form grouping label
	Category *string `db:"category" json:"category,omitempty"`

	// Role flags. An item can be both raw material and finished good
	// (e.g. a semi-finished product consumed by another BOM).
	IsRawMaterial  bool `db:"is_raw_material" json:"isRawMaterial"`
	IsFinishedGood bool `db:"is_finished_good" json:"isFinishedGood"`
	IsPurchased    bool `db:"is_purchased" json:"isPurchased"`
	IsManufactured bool `db:"is_manufactured" json:"isManufactured"`

	// ReorderLevel triggers the low-stock flag in the stock summary
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`

	// StandardCost is the default purchase/production cost
	StandardCost types.Money `db:"standard_cost" json:"standardCost"`

	// SellingPrice is the default sale price
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// CurrentStock is a cached total across all warehouses.
	// Maintained by the stock register; must equal the sum of balances.
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`

	// IsActive allows retiring an item without deleting history
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name, unit string) *Item {
	return &Item{
		Catalog:      entity.NewCatalog(code, name),
		Unit:         unit,
		StandardCost: types.ZeroMoney(),
		SellingPrice: types.ZeroMoney(),
		IsActive:     true,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if i.ReorderLevel.IsNegative() {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	if i.StandardCost.IsNegative() {
		return apperror.NewValidation("standard cost cannot be negative").
			WithDetail("field", "standardCost")
	}

	if i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	return nil
}

// IsLowStock returns true if cached stock is at or below the reorder level.
func (i *Item) IsLowStock() bool {
	return i.ReorderLevel.IsPositive() && i.CurrentStock.Cmp(i.ReorderLevel) <= 0
}

// Package purchase provides the Purchase document: a single-line goods
// receipt that posts one positive PURCHASE movement.
package purchase

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Purchase records goods received from a supplier.
type Purchase struct {
	entity.Document

	ItemID      id.ID `db:"item_id" json:"itemId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	UnitCost types.Money    `db:"unit_cost" json:"unitCost"`

	// TotalCost = Quantity * UnitCost, computed at save time
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	SupplierName *string `db:"supplier_name" json:"supplierName,omitempty"`
}

// NewPurchase creates a Purchase with generated ID.
// Number is assigned at save time.
func NewPurchase(itemID, warehouseID id.ID, qty types.Quantity, unitCost types.Money, date time.Time) *Purchase {
	return &Purchase{
		Document:    entity.NewDocument(date),
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UnitCost:    unitCost,
	}
}

// Validate implements entity.Validatable interface.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if !p.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if p.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}
	return nil
}

// ComputeTotal derives TotalCost from quantity and unit cost.
func (p *Purchase) ComputeTotal() {
	p.TotalCost = p.Quantity.Decimal().Mul(p.UnitCost)
}

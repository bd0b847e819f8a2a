// Package sale provides the Sale document: a single-line goods issue that
// posts one negative SALE movement after a sufficiency check.
package sale

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Sale records goods issued to a customer.
type Sale struct {
	entity.Document

	ItemID      id.ID `db:"item_id" json:"itemId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// CustomerID is optional; walk-in sales carry no customer reference
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// TotalAmount = Quantity * UnitPrice, computed at save time
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
}

// NewSale creates a Sale with generated ID. Number is assigned at save time.
func NewSale(itemID, warehouseID id.ID, qty types.Quantity, unitPrice types.Money, date time.Time) *Sale {
	return &Sale{
		Document:    entity.NewDocument(date),
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UnitPrice:   unitPrice,
	}
}

// Validate implements entity.Validatable interface.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if id.IsNil(s.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if !s.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if s.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	return nil
}

// ComputeTotal derives TotalAmount from quantity and unit price.
func (s *Sale) ComputeTotal() {
	s.TotalAmount = s.Quantity.Decimal().Mul(s.UnitPrice)
}

// Package stock provides the stock movement register: the append-only
// movement log and the cached per-warehouse balance store derived from it.
package stock

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// MovementType classifies what business event produced a movement.
type MovementType string

const (
	TypePurchase   MovementType = "PURCHASE"
	TypeSale       MovementType = "SALE"
	TypeProduction MovementType = "PRODUCTION"
	TypeAdjustment MovementType = "ADJUSTMENT"
	TypeTransfer   MovementType = "TRANSFER"
)

// IsValidMovementType reports whether t is a known movement type.
func IsValidMovementType(t MovementType) bool {
	switch t {
	case TypePurchase, TypeSale, TypeProduction, TypeAdjustment, TypeTransfer:
		return true
	}
	return false
}

// Movement is one row of the stock ledger.
// Movements are immutable: they are inserted once and never updated.
// Quantity is signed: positive rows receive stock, negative rows issue it.
type Movement struct {
	ID id.ID `db:"id" json:"id"`

	// MovementNo is the ledger number (STK-YYYY-NNNN), assigned at insert
	MovementNo string `db:"movement_no" json:"movementNo"`

	// Dimensions
	ItemID      id.ID `db:"item_id" json:"itemId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Quantity is the signed stock delta
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	Type MovementType `db:"movement_type" json:"movementType"`

	// Reference points back at the originating document
	ReferenceType *string `db:"reference_type" json:"referenceType,omitempty"`
	ReferenceNo   *string `db:"reference_no" json:"referenceNo,omitempty"`

	// UnitCost carries the cost at movement time, when known
	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	Remarks *string `db:"remarks" json:"remarks,omitempty"`

	// MovementDate is the business date
	MovementDate time.Time `db:"movement_date" json:"movementDate"`

	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with generated ID and timestamps.
// MovementNo is assigned by the service at record time.
func NewMovement(itemID, warehouseID id.ID, qty types.Quantity, mvType MovementType) *Movement {
	now := time.Now().UTC()
	return &Movement{
		ID:           id.New(),
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		Quantity:     qty,
		Type:         mvType,
		MovementDate: now,
		CreatedAt:    now,
	}
}

// WithReference attaches the originating document reference.
func (m *Movement) WithReference(refType, refNo string) *Movement {
	m.ReferenceType = &refType
	m.ReferenceNo = &refNo
	return m
}

// WithUnitCost attaches the cost at movement time.
func (m *Movement) WithUnitCost(cost types.Money) *Movement {
	m.UnitCost = &cost
	return m
}

// Validate checks movement invariants.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if id.IsNil(m.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if m.Quantity.IsZero() {
		return apperror.NewValidation("quantity cannot be zero").
			WithDetail("field", "quantity")
	}
	if !IsValidMovementType(m.Type) {
		return apperror.NewValidation("invalid movement type").
			WithDetail("field", "movementType").
			WithDetail("value", string(m.Type))
	}
	return nil
}

// IsReceipt reports whether the movement increases stock.
func (m *Movement) IsReceipt() bool {
	return m.Quantity.IsPositive()
}

// Balance is the cached stock level for one (item, warehouse) pair.
// Rows are created lazily on first movement and pruned only by
// reconciliation when no movements remain.
type Balance struct {
	ItemID      id.ID          `db:"item_id" json:"itemId"`
	WarehouseID id.ID          `db:"warehouse_id" json:"warehouseId"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	LastUpdated time.Time      `db:"last_updated" json:"lastUpdated"`
}

// LedgerRow is a movement annotated with the running balance after it,
// relative to the prior row by insertion order.
type LedgerRow struct {
	Movement
	RunningBalance types.Quantity `db:"running_balance" json:"runningBalance"`
}

// SummaryRow is one line of the stock summary report.
type SummaryRow struct {
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	ItemCode     string         `db:"item_code" json:"itemCode"`
	ItemName     string         `db:"item_name" json:"itemName"`
	Unit         string         `db:"unit" json:"unit"`
	TotalStock   types.Quantity `db:"total_stock" json:"totalStock"`
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`
	LowStock     bool           `db:"low_stock" json:"lowStock"`
}

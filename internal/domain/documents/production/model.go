// Package production provides the Production document: consume raw
// materials from a source warehouse, receive a finished item into a
// destination warehouse, all-or-nothing.
package production

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Production is a production run header with its consumed inputs.
type Production struct {
	entity.Document

	// ItemID is the finished item produced
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity is the produced output quantity
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// WarehouseID is the destination warehouse receiving the output
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// SourceWarehouseID is where raw materials are drawn from.
	// Defaults to the destination warehouse when not set.
	SourceWarehouseID *id.ID `db:"source_warehouse_id" json:"sourceWarehouseId,omitempty"`

	// BOMID optionally records which recipe the inputs came from
	BOMID *id.ID `db:"bom_id" json:"bomId,omitempty"`

	// Inputs are the raw materials consumed by this run
	Inputs []Input `db:"-" json:"inputs"`
}

// Input is one raw material consumed by a production run.
type Input struct {
	ID           id.ID          `db:"id" json:"id"`
	ProductionID id.ID          `db:"production_id" json:"productionId"`
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
}

// NewProduction creates a Production with generated ID.
// Number is assigned at record time.
func NewProduction(itemID, warehouseID id.ID, qty types.Quantity, date time.Time) *Production {
	return &Production{
		Document:    entity.NewDocument(date),
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    qty,
	}
}

// AddInput appends a consumed raw material.
func (p *Production) AddInput(itemID id.ID, qty types.Quantity) {
	p.Inputs = append(p.Inputs, Input{
		ID:           id.New(),
		ProductionID: p.ID,
		ItemID:       itemID,
		Quantity:     qty,
	})
}

// SourceWarehouse returns the raw materials warehouse, falling back to the
// destination warehouse when none is set.
func (p *Production) SourceWarehouse() id.ID {
	if p.SourceWarehouseID != nil && !id.IsNil(*p.SourceWarehouseID) {
		return *p.SourceWarehouseID
	}
	return p.WarehouseID
}

// Validate implements entity.Validatable interface.
func (p *Production) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.ItemID) {
		return apperror.NewValidation("output item is required").
			WithDetail("field", "itemId")
	}
	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation("destination warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if !p.Quantity.IsPositive() {
		return apperror.NewValidation("output quantity must be positive").
			WithDetail("field", "quantity")
	}
	if len(p.Inputs) == 0 {
		return apperror.NewValidation("at least one input is required").
			WithDetail("field", "inputs")
	}
	for i, in := range p.Inputs {
		if id.IsNil(in.ItemID) {
			return apperror.NewValidation("input item is required").
				WithDetail("input", i)
		}
		if !in.Quantity.IsPositive() {
			return apperror.NewValidation("input quantity must be positive").
				WithDetail("input", i)
		}
	}
	return nil
}

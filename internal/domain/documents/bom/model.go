// Package bom provides bills of materials: named recipes that list the raw
// materials needed to produce a base quantity of a finished item.
package bom

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// BOM is a bill of materials header with its lines.
type BOM struct {
	entity.Document

	// Name is a human-readable recipe label
	Name string `db:"name" json:"name"`

	// ItemID is the finished item this recipe produces
	ItemID id.ID `db:"item_id" json:"itemId"`

	// OutputQuantity is the base batch size the lines are stated for
	OutputQuantity types.Quantity `db:"output_quantity" json:"outputQuantity"`

	// IsActive allows retiring a recipe without deleting it
	IsActive bool `db:"is_active" json:"isActive"`

	// Lines are the raw material requirements for OutputQuantity
	Lines []Line `db:"-" json:"lines"`
}

// Line is one raw material requirement of a BOM.
type Line struct {
	ID     id.ID `db:"id" json:"id"`
	BOMID  id.ID `db:"bom_id" json:"bomId"`
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity required to produce the BOM's base output quantity
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// ScaledRequirement is one raw material need for a requested output quantity.
type ScaledRequirement struct {
	ItemID   id.ID          `json:"itemId"`
	Quantity types.Quantity `json:"quantity"`
}

// NewBOM creates a BOM with generated ID. Number is assigned at save time.
func NewBOM(name string, itemID id.ID, outputQty types.Quantity) *BOM {
	return &BOM{
		Document:       entity.NewDocument(time.Now().UTC()),
		Name:           name,
		ItemID:         itemID,
		OutputQuantity: outputQty,
		IsActive:       true,
	}
}

// AddLine appends a raw material requirement.
func (b *BOM) AddLine(itemID id.ID, qty types.Quantity) {
	b.Lines = append(b.Lines, Line{
		ID:       id.New(),
		BOMID:    b.ID,
		ItemID:   itemID,
		Quantity: qty,
	})
}

// Validate implements entity.Validatable interface.
func (b *BOM) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(b.ItemID) {
		return apperror.NewValidation("finished item is required").
			WithDetail("field", "itemId")
	}
	if !b.OutputQuantity.IsPositive() {
		return apperror.NewValidation("output quantity must be positive").
			WithDetail("field", "outputQuantity")
	}
	if len(b.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range b.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item is required").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i)
		}
	}
	return nil
}

// Scale returns the raw material requirements for a requested output
// quantity, each line scaled linearly by requested/base. Pure: no stock
// checks, no rounding beyond the quantity scale.
func (b *BOM) Scale(requested types.Quantity) []ScaledRequirement {
	reqs := make([]ScaledRequirement, 0, len(b.Lines))
	for _, line := range b.Lines {
		reqs = append(reqs, ScaledRequirement{
			ItemID:   line.ItemID,
			Quantity: line.Quantity.MulRatio(requested, b.OutputQuantity),
		})
	}
	return reqs
}

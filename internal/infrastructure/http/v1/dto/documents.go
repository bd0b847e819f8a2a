package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents/bom"
	"stockbook/internal/domain/documents/production"
	"stockbook/internal/domain/documents/purchase"
	"stockbook/internal/domain/documents/sale"
)

// --- Purchases ---

// CreatePurchaseRequest is the request body for recording a purchase.
type CreatePurchaseRequest struct {
	ItemID       id.ID          `json:"itemId" binding:"required"`
	WarehouseID  id.ID          `json:"warehouseId" binding:"required"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`
	UnitCost     types.Money    `json:"unitCost"`
	SupplierName *string        `json:"supplierName"`
	Date         *time.Time     `json:"date"`
	Remarks      *string        `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePurchaseRequest) ToEntity() *purchase.Purchase {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	p := purchase.NewPurchase(r.ItemID, r.WarehouseID, r.Quantity, r.UnitCost, date)
	p.SupplierName = r.SupplierName
	p.Remarks = r.Remarks
	return p
}

// --- Sales ---

// CreateSaleRequest is the request body for recording a sale.
type CreateSaleRequest struct {
	ItemID      id.ID          `json:"itemId" binding:"required"`
	WarehouseID id.ID          `json:"warehouseId" binding:"required"`
	CustomerID  *id.ID         `json:"customerId"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	UnitPrice   types.Money    `json:"unitPrice"`
	Date        *time.Time     `json:"date"`
	Remarks     *string        `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSaleRequest) ToEntity() *sale.Sale {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	s := sale.NewSale(r.ItemID, r.WarehouseID, r.Quantity, r.UnitPrice, date)
	s.CustomerID = r.CustomerID
	s.Remarks = r.Remarks
	return s
}

// --- BOMs ---

// BOMLineRequest is one raw material requirement.
type BOMLineRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// CreateBOMRequest is the request body for creating a bill of materials.
type CreateBOMRequest struct {
	Name           string           `json:"name" binding:"required"`
	ItemID         id.ID            `json:"itemId" binding:"required"`
	OutputQuantity types.Quantity   `json:"outputQuantity" binding:"required"`
	Lines          []BOMLineRequest `json:"lines" binding:"required"`
	Remarks        *string          `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBOMRequest) ToEntity() *bom.BOM {
	b := bom.NewBOM(r.Name, r.ItemID, r.OutputQuantity)
	b.Remarks = r.Remarks
	for _, line := range r.Lines {
		b.AddLine(line.ItemID, line.Quantity)
	}
	return b
}

// UpdateBOMRequest is the request body for updating a bill of materials.
// Lines replace the existing set.
type UpdateBOMRequest struct {
	Name           string           `json:"name" binding:"required"`
	OutputQuantity types.Quantity   `json:"outputQuantity" binding:"required"`
	IsActive       bool             `json:"isActive"`
	Lines          []BOMLineRequest `json:"lines" binding:"required"`
	Remarks        *string          `json:"remarks"`
	Version        int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateBOMRequest) ApplyTo(b *bom.BOM) {
	b.Name = r.Name
	b.OutputQuantity = r.OutputQuantity
	b.IsActive = r.IsActive
	b.Remarks = r.Remarks
	b.Version = r.Version
	b.Lines = nil
	for _, line := range r.Lines {
		b.AddLine(line.ItemID, line.Quantity)
	}
}

// ScaleQuery asks for scaled requirements of a BOM.
type ScaleQuery struct {
	Quantity types.Quantity `form:"quantity" binding:"required"`
}

// --- Productions ---

// ProductionInputRequest is one consumed raw material.
type ProductionInputRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// CreateProductionRequest is the request body for recording a production
// run. Inputs may come from a BOM (client-side scaling) or be stated
// directly.
type CreateProductionRequest struct {
	ItemID            id.ID                    `json:"itemId" binding:"required"`
	WarehouseID       id.ID                    `json:"warehouseId" binding:"required"`
	SourceWarehouseID *id.ID                   `json:"sourceWarehouseId"`
	Quantity          types.Quantity           `json:"quantity" binding:"required"`
	BOMID             *id.ID                   `json:"bomId"`
	Inputs            []ProductionInputRequest `json:"inputs" binding:"required"`
	Date              *time.Time               `json:"date"`
	Remarks           *string                  `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductionRequest) ToEntity() *production.Production {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	p := production.NewProduction(r.ItemID, r.WarehouseID, r.Quantity, date)
	p.SourceWarehouseID = r.SourceWarehouseID
	p.BOMID = r.BOMID
	p.Remarks = r.Remarks
	for _, in := range r.Inputs {
		p.AddInput(in.ItemID, in.Quantity)
	}
	return p
}

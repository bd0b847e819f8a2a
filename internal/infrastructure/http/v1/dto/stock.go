package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/registers/stock"
)

// RecordMovementRequest is the request body for a manual stock movement
// (adjustment or transfer leg). Document postings go through their own
// endpoints.
type RecordMovementRequest struct {
	ItemID       id.ID              `json:"itemId" binding:"required"`
	WarehouseID  id.ID              `json:"warehouseId" binding:"required"`
	Quantity     types.Quantity     `json:"quantity" binding:"required"`
	MovementType stock.MovementType `json:"movementType" binding:"required"`
	UnitCost     *types.Money       `json:"unitCost"`
	Remarks      *string            `json:"remarks"`
	MovementDate *time.Time         `json:"movementDate"`
}

// ToMovement converts DTO to a stock movement.
func (r *RecordMovementRequest) ToMovement() *stock.Movement {
	mv := stock.NewMovement(r.ItemID, r.WarehouseID, r.Quantity, r.MovementType)
	if r.UnitCost != nil {
		mv.WithUnitCost(*r.UnitCost)
	}
	mv.Remarks = r.Remarks
	if r.MovementDate != nil {
		mv.MovementDate = *r.MovementDate
	}
	return mv
}

// MovementQuery contains movement history query parameters.
type MovementQuery struct {
	ItemID       *id.ID     `form:"itemId"`
	WarehouseID  *id.ID     `form:"warehouseId"`
	MovementType *string    `form:"movementType"`
	FromDate     *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate       *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit        int        `form:"limit"`
	Offset       int        `form:"offset"`
}

// ToFilter converts query parameters to a movement filter.
func (q *MovementQuery) ToFilter() stock.MovementFilter {
	filter := stock.MovementFilter{
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		FromDate:    q.FromDate,
		ToDate:      q.ToDate,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if q.MovementType != nil {
		t := stock.MovementType(*q.MovementType)
		filter.Type = &t
	}
	return filter
}

// SummaryQuery contains stock summary query parameters.
type SummaryQuery struct {
	LowStockOnly bool   `form:"lowStockOnly"`
	Search       string `form:"search"`
}

// ToFilter converts query parameters to a summary filter.
func (q *SummaryQuery) ToFilter() stock.SummaryFilter {
	return stock.SummaryFilter{
		LowStockOnly: q.LowStockOnly,
		Search:       q.Search,
	}
}

// BalanceResponse is one (item, warehouse) balance.
type BalanceResponse struct {
	ItemID      string         `json:"itemId"`
	WarehouseID string         `json:"warehouseId"`
	Quantity    types.Quantity `json:"quantity"`
}

// FromBalance creates a response from a balance row.
func FromBalance(b stock.Balance) BalanceResponse {
	return BalanceResponse{
		ItemID:      b.ItemID.String(),
		WarehouseID: b.WarehouseID.String(),
		Quantity:    b.Quantity,
	}
}

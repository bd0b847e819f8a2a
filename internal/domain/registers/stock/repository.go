package stock

import (
	"context"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository defines persistence operations for the stock register.
type Repository interface {
	// Movement operations

	// CreateMovement inserts one immutable ledger row
	CreateMovement(ctx context.Context, mv *Movement) error

	// ListMovements retrieves movement history with filters
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)

	// GetItemLedger returns movements for an item with running balances,
	// computed over insertion order
	GetItemLedger(ctx context.Context, itemID id.ID, filter MovementFilter) ([]LedgerRow, error)

	// Balance operations

	// GetBalance returns the balance row for (item, warehouse).
	// Missing row means zero stock and returns a not-found error.
	GetBalance(ctx context.Context, itemID, warehouseID id.ID) (Balance, error)

	// GetBalanceForUpdate returns the balance row with a row lock.
	// Used inside transactions to serialize sufficiency checks.
	GetBalanceForUpdate(ctx context.Context, itemID, warehouseID id.ID) (Balance, error)

	// UpsertBalance adds delta to the (item, warehouse) balance,
	// creating the row at delta if absent
	UpsertBalance(ctx context.Context, itemID, warehouseID id.ID, delta types.Quantity) error

	// GetBalancesByItem returns balances across all warehouses for an item
	GetBalancesByItem(ctx context.Context, itemID id.ID) ([]Balance, error)

	// GetBalancesByWarehouse returns all balances in a warehouse
	GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, excludeZero bool) ([]Balance, error)

	// Cached item stock

	// RecalcItemStock rewrites items.current_stock from the sum of balances
	RecalcItemStock(ctx context.Context, itemID id.ID) error

	// Reporting

	// GetSummary returns per-item stock totals with the low-stock flag
	GetSummary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error)
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	ItemID      *id.ID
	WarehouseID *id.ID
	Type        *MovementType
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// SummaryFilter for the stock summary report.
type SummaryFilter struct {
	LowStockOnly bool
	Search       string
}

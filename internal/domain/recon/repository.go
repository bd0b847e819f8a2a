package recon

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository defines the aggregate queries reconciliation runs over the
// stock register. The queries compare derived rows against the movement
// ledger and touch only rows that disagree.
type Repository interface {
	// FindBalanceDrift returns (item, warehouse) pairs whose stored balance
	// differs from the sum of their movements, including pairs with
	// movements but no balance row
	FindBalanceDrift(ctx context.Context) ([]BalanceDrift, error)

	// SetBalance rewrites the (item, warehouse) balance to an exact
	// quantity, inserting the row if absent
	SetBalance(ctx context.Context, itemID, warehouseID id.ID, quantity types.Quantity) error

	// FindOrphanBalances returns balance rows with no movements behind them
	FindOrphanBalances(ctx context.Context) ([]OrphanBalance, error)

	// DeleteBalance removes one balance row
	DeleteBalance(ctx context.Context, itemID, warehouseID id.ID) error

	// RecalcAllItemStock rewrites items.current_stock from balances for
	// every item whose cached value disagrees, returning the number of
	// items corrected
	RecalcAllItemStock(ctx context.Context) (int64, error)
}

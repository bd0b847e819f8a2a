package register_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/recon"
	"stockbook/internal/infrastructure/storage/postgres"
)

// ReconRepo implements recon.Repository with aggregate queries over the
// stock tables.
type ReconRepo struct {
	txm *postgres.TxManager
}

var _ recon.Repository = (*ReconRepo)(nil)

// NewReconRepo creates a new reconciliation repository.
func NewReconRepo(txm *postgres.TxManager) *ReconRepo {
	return &ReconRepo{txm: txm}
}

func (r *ReconRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// FindBalanceDrift returns (item, warehouse) pairs whose stored balance
// differs from the sum of their movements. Pairs with movements but no
// balance row come back with Missing set; balance rows with no movements
// are not drift, FindOrphanBalances handles those.
func (r *ReconRepo) FindBalanceDrift(ctx context.Context) ([]recon.BalanceDrift, error) {
	sql := `SELECT m.item_id,
			m.warehouse_id,
			COALESCE(b.quantity, 0) AS stored,
			m.total AS computed,
			b.item_id IS NULL AS missing
		FROM (
			SELECT item_id, warehouse_id, SUM(quantity) AS total
			FROM stock_movements
			GROUP BY item_id, warehouse_id
		) m
		LEFT JOIN stock_balances b
			ON b.item_id = m.item_id AND b.warehouse_id = m.warehouse_id
		WHERE b.item_id IS NULL OR b.quantity <> m.total
		ORDER BY m.item_id, m.warehouse_id`

	var drifts []recon.BalanceDrift
	if err := pgxscan.Select(ctx, r.querier(ctx), &drifts, sql); err != nil {
		return nil, fmt.Errorf("find balance drift: %w", err)
	}
	return drifts, nil
}

// SetBalance rewrites the (item, warehouse) balance to an exact quantity,
// inserting the row if absent.
func (r *ReconRepo) SetBalance(ctx context.Context, itemID, warehouseID id.ID, quantity types.Quantity) error {
	sql := `INSERT INTO stock_balances (item_id, warehouse_id, quantity, last_updated)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = NOW()`

	if _, err := r.querier(ctx).Exec(ctx, sql, itemID, warehouseID, quantity); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// FindOrphanBalances returns balance rows with no movements behind them.
func (r *ReconRepo) FindOrphanBalances(ctx context.Context) ([]recon.OrphanBalance, error) {
	sql := `SELECT b.item_id, b.warehouse_id, b.quantity
		FROM stock_balances b
		WHERE NOT EXISTS (
			SELECT 1 FROM stock_movements m
			WHERE m.item_id = b.item_id AND m.warehouse_id = b.warehouse_id
		)
		ORDER BY b.item_id, b.warehouse_id`

	var orphans []recon.OrphanBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &orphans, sql); err != nil {
		return nil, fmt.Errorf("find orphan balances: %w", err)
	}
	return orphans, nil
}

// DeleteBalance removes one balance row.
func (r *ReconRepo) DeleteBalance(ctx context.Context, itemID, warehouseID id.ID) error {
	sql := `DELETE FROM stock_balances WHERE item_id = $1 AND warehouse_id = $2`

	if _, err := r.querier(ctx).Exec(ctx, sql, itemID, warehouseID); err != nil {
		return fmt.Errorf("delete balance: %w", err)
	}
	return nil
}

// RecalcAllItemStock rewrites items.current_stock from balances, touching
// only items whose cached value disagrees. Returns the number of items
// corrected.
func (r *ReconRepo) RecalcAllItemStock(ctx context.Context) (int64, error) {
	sql := `UPDATE items i
		SET current_stock = c.total
		FROM (
			SELECT i2.id, COALESCE(SUM(b.quantity), 0) AS total
			FROM items i2
			LEFT JOIN stock_balances b ON b.item_id = i2.id
			GROUP BY i2.id
		) c
		WHERE c.id = i.id AND i.current_stock <> c.total`

	result, err := r.querier(ctx).Exec(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("recalc item stock: %w", err)
	}
	return result.RowsAffected(), nil
}

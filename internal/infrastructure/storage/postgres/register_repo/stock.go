// Package register_repo provides PostgreSQL implementations for the
// register repositories: the stock movement ledger with its balance cache
// and the customer ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "stock_movements"
	balancesTable  = "stock_balances"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm          *postgres.TxManager
	movementCols []string
	balanceCols  []string
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:          txm,
		movementCols: postgres.ExtractDBColumns[stock.Movement](),
		balanceCols:  postgres.ExtractDBColumns[stock.Balance](),
	}
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// CreateMovement inserts one immutable ledger row.
func (r *StockRepo) CreateMovement(ctx context.Context, mv *stock.Movement) error {
	data := postgres.StructToMap(mv)

	q := r.builder().
		Insert(movementsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func applyMovementFilter(q squirrel.SelectBuilder, filter stock.MovementFilter) squirrel.SelectBuilder {
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": string(*filter.Type)})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": *filter.ToDate})
	}
	return q
}

// ListMovements retrieves movement history, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	q := r.builder().
		Select(r.movementCols...).
		From(movementsTable)

	q = applyMovementFilter(q, filter).
		OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// GetItemLedger returns the movement ledger for one item with running
// balances. The window runs over the item's full history by insertion
// order, so a date-filtered page still shows true balances, not deltas
// from the page start.
func (r *StockRepo) GetItemLedger(ctx context.Context, itemID id.ID, filter stock.MovementFilter) ([]stock.LedgerRow, error) {
	cols := make([]string, 0, len(r.movementCols)+1)
	cols = append(cols, r.movementCols...)
	cols = append(cols, "SUM(quantity) OVER (ORDER BY created_at, id) AS running_balance")

	inner := r.builder().
		Select(cols...).
		From(movementsTable).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.WarehouseID != nil {
		inner = inner.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.Type != nil {
		inner = inner.Where(squirrel.Eq{"movement_type": string(*filter.Type)})
	}

	q := r.builder().
		Select("*").
		FromSelect(inner, "m")

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": *filter.ToDate})
	}

	q = q.OrderBy("created_at ASC", "id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.LedgerRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get item ledger: %w", err)
	}
	return rows, nil
}

func (r *StockRepo) getBalance(ctx context.Context, itemID, warehouseID id.ID, forUpdate bool) (stock.Balance, error) {
	var balance stock.Balance

	q := r.builder().
		Select(r.balanceCols...).
		From(balancesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"warehouse_id": warehouseID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return balance, apperror.NewNotFound(balancesTable, itemID.String()+"/"+warehouseID.String())
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// GetBalance returns the balance row for (item, warehouse).
func (r *StockRepo) GetBalance(ctx context.Context, itemID, warehouseID id.ID) (stock.Balance, error) {
	return r.getBalance(ctx, itemID, warehouseID, false)
}

// GetBalanceForUpdate returns the balance row with a row lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, itemID, warehouseID id.ID) (stock.Balance, error) {
	return r.getBalance(ctx, itemID, warehouseID, true)
}

// UpsertBalance adds delta to the (item, warehouse) balance, creating the
// row at delta if absent. The whole read-modify-write happens in one
// statement so concurrent postings cannot lose updates.
func (r *StockRepo) UpsertBalance(ctx context.Context, itemID, warehouseID id.ID, delta types.Quantity) error {
	sql := `INSERT INTO stock_balances (item_id, warehouse_id, quantity, last_updated)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = stock_balances.quantity + EXCLUDED.quantity, last_updated = NOW()`

	if _, err := r.querier(ctx).Exec(ctx, sql, itemID, warehouseID, delta); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// GetBalancesByItem returns balances across all warehouses for an item.
func (r *StockRepo) GetBalancesByItem(ctx context.Context, itemID id.ID) ([]stock.Balance, error) {
	q := r.builder().
		Select(r.balanceCols...).
		From(balancesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("get balances by item: %w", err)
	}
	return balances, nil
}

// GetBalancesByWarehouse returns all balances in a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, excludeZero bool) ([]stock.Balance, error) {
	q := r.builder().
		Select(r.balanceCols...).
		From(balancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("item_id")

	if excludeZero {
		q = q.Where(squirrel.NotEq{"quantity": 0})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []stock.Balance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("get balances by warehouse: %w", err)
	}
	return balances, nil
}

// RecalcItemStock rewrites items.current_stock from the sum of balances.
func (r *StockRepo) RecalcItemStock(ctx context.Context, itemID id.ID) error {
	sql := `UPDATE items
		SET current_stock = COALESCE(
			(SELECT SUM(quantity) FROM stock_balances WHERE item_id = $1), 0)
		WHERE id = $1`

	result, err := r.querier(ctx).Exec(ctx, sql, itemID)
	if err != nil {
		return fmt.Errorf("recalc item stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("items", itemID.String())
	}
	return nil
}

// GetSummary returns per-item stock totals with the low-stock flag.
func (r *StockRepo) GetSummary(ctx context.Context, filter stock.SummaryFilter) ([]stock.SummaryRow, error) {
	lowStockExpr := "(i.reorder_level > 0 AND COALESCE(SUM(b.quantity), 0) <= i.reorder_level)"

	q := r.builder().
		Select(
			"i.id AS item_id",
			"i.code AS item_code",
			"i.name AS item_name",
			"i.unit",
			"COALESCE(SUM(b.quantity), 0) AS total_stock",
			"i.reorder_level",
			lowStockExpr+" AS low_stock",
		).
		From("items i").
		LeftJoin("stock_balances b ON b.item_id = i.id").
		Where(squirrel.Eq{"i.deletion_mark": false}).
		GroupBy("i.id", "i.code", "i.name", "i.unit", "i.reorder_level").
		OrderBy("i.name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.code": pattern},
		})
	}
	if filter.LowStockOnly {
		q = q.Having(lowStockExpr)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.SummaryRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return rows, nil
}

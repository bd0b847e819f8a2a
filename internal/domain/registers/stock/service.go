package stock

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/pkg/logger"
)

// Service provides business operations for the stock register.
// Document services call RecordMovement inside their own transactions;
// nested transaction reuse keeps the whole posting atomic.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new stock register service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: gen,
	}
}

// RecordMovement appends one ledger row and keeps the derived state in step:
// the (item, warehouse) balance takes the signed delta, and the item's cached
// current_stock is rewritten from the sum of its balances. The three writes
// share one transaction; a constraint violation aborts all of them.
// No sufficiency validation happens here; callers that must not oversell
// check balances under lock before recording.
func (s *Service) RecordMovement(ctx context.Context, mv *Movement) (string, error) {
	if err := mv.Validate(ctx); err != nil {
		return "", err
	}

	if mv.CreatedBy == "" {
		mv.CreatedBy = appctx.GetUserID(ctx)
	}
	if mv.MovementDate.IsZero() {
		mv.MovementDate = time.Now().UTC()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("STK"), time.Now())
		if err != nil {
			return fmt.Errorf("generate movement number: %w", err)
		}
		mv.MovementNo = number

		if err := s.repo.CreateMovement(ctx, mv); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		if err := s.repo.UpsertBalance(ctx, mv.ItemID, mv.WarehouseID, mv.Quantity); err != nil {
			return fmt.Errorf("upsert balance: %w", err)
		}

		if err := s.repo.RecalcItemStock(ctx, mv.ItemID); err != nil {
			return fmt.Errorf("recalc item stock: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "recorded stock movement",
		"movement_no", mv.MovementNo,
		"item_id", mv.ItemID,
		"warehouse_id", mv.WarehouseID,
		"quantity", mv.Quantity.String(),
		"type", string(mv.Type),
	)

	return mv.MovementNo, nil
}

// AvailableForUpdate returns the locked balance quantity for (item, warehouse).
// A missing balance row means zero stock, not an error. Must be called inside
// a transaction so the lock holds until commit.
func (s *Service) AvailableForUpdate(ctx context.Context, itemID, warehouseID id.ID) (types.Quantity, error) {
	balance, err := s.repo.GetBalanceForUpdate(ctx, itemID, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance for update: %w", err)
	}
	return balance.Quantity, nil
}

// GetBalance returns the current quantity for (item, warehouse), zero if no
// balance row exists.
func (s *Service) GetBalance(ctx context.Context, itemID, warehouseID id.ID) (types.Quantity, error) {
	balance, err := s.repo.GetBalance(ctx, itemID, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance.Quantity, nil
}

// GetItemAvailability returns total available quantity across warehouses.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total = total.Add(b.Quantity)
	}
	return total, nil
}

// GetBalancesByItem returns per-warehouse balances for an item.
func (s *Service) GetBalancesByItem(ctx context.Context, itemID id.ID) ([]Balance, error) {
	return s.repo.GetBalancesByItem(ctx, itemID)
}

// GetWarehouseStock returns all non-zero balances in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]Balance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID, true)
}

// ListMovements returns movement history with filters.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.ListMovements(ctx, filter)
}

// GetItemLedger returns the movement ledger for an item with running balances.
func (s *Service) GetItemLedger(ctx context.Context, itemID id.ID, filter MovementFilter) ([]LedgerRow, error) {
	return s.repo.GetItemLedger(ctx, itemID, filter)
}

// GetSummary returns the stock summary report.
func (s *Service) GetSummary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error) {
	return s.repo.GetSummary(ctx, filter)
}

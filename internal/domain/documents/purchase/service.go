package purchase

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/registers/stock"
	"stockbook/pkg/logger"
)

// referenceType tags stock movements posted by this document.
const referenceType = "Purchase"

// Service provides business logic for Purchase documents.
type Service struct {
	repo       Repository
	items      item.Repository
	warehouses warehouse.Repository
	stockSvc   *stock.Service
	txManager  tx.Manager
	numerator  numerator.Generator
}

// NewService creates a new Purchase service.
func NewService(
	repo Repository,
	items item.Repository,
	warehouses warehouse.Repository,
	stockSvc *stock.Service,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:       repo,
		items:      items,
		warehouses: warehouses,
		stockSvc:   stockSvc,
		txManager:  txManager,
		numerator:  gen,
	}
}

// Create validates the purchase, assigns a number, stores the header and
// posts one positive PURCHASE movement. One transaction, all-or-nothing.
func (s *Service) Create(ctx context.Context, p *Purchase) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if exists, err := s.items.Exists(ctx, p.ItemID); err != nil {
		return fmt.Errorf("check item: %w", err)
	} else if !exists {
		return apperror.NewNotFound("item", p.ItemID.String())
	}
	if exists, err := s.warehouses.Exists(ctx, p.WarehouseID); err != nil {
		return fmt.Errorf("check warehouse: %w", err)
	} else if !exists {
		return apperror.NewNotFound("warehouse", p.WarehouseID.String())
	}

	p.ComputeTotal()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("PURCH"), time.Now())
		if err != nil {
			return fmt.Errorf("generate purchase number: %w", err)
		}
		p.Number = number

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		mv := stock.NewMovement(p.ItemID, p.WarehouseID, p.Quantity, stock.TypePurchase).
			WithReference(referenceType, p.Number).
			WithUnitCost(p.UnitCost)
		mv.MovementDate = p.Date

		if _, err := s.stockSvc.RecordMovement(ctx, mv); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase recorded",
		"number", p.Number,
		"item_id", p.ItemID,
		"quantity", p.Quantity.String(),
	)
	return nil
}

// GetByID retrieves a purchase.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, purchaseID)
}

// List retrieves purchases.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}

// Delete detaches the header; the posted PURCHASE movement stays in the
// ledger as history. Balances are not reversed.
func (s *Service) Delete(ctx context.Context, purchaseID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.HardDelete(ctx, purchaseID); err != nil {
			return err
		}
		logger.Info(ctx, "purchase deleted, movements preserved", "purchase_id", purchaseID)
		return nil
	})
}

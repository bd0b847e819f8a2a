package sale

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/registers/stock"
	"stockbook/pkg/logger"
)

// referenceType tags stock movements posted by this document.
const referenceType = "Sale"

// Service provides business logic for Sale documents.
type Service struct {
	repo       Repository
	items      item.Repository
	warehouses warehouse.Repository
	customers  customer.Repository
	stockSvc   *stock.Service
	txManager  tx.Manager
	numerator  numerator.Generator
}

// NewService creates a new Sale service.
func NewService(
	repo Repository,
	items item.Repository,
	warehouses warehouse.Repository,
	customers customer.Repository,
	stockSvc *stock.Service,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:       repo,
		items:      items,
		warehouses: warehouses,
		customers:  customers,
		stockSvc:   stockSvc,
		txManager:  txManager,
		numerator:  gen,
	}
}

// Create validates the sale, checks stock sufficiency under a row lock,
// stores the header and posts one negative SALE movement. One transaction,
// all-or-nothing: an insufficient balance aborts everything.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	it, err := s.items.GetByID(ctx, doc.ItemID)
	if err != nil {
		return err
	}
	if exists, err := s.warehouses.Exists(ctx, doc.WarehouseID); err != nil {
		return fmt.Errorf("check warehouse: %w", err)
	} else if !exists {
		return apperror.NewNotFound("warehouse", doc.WarehouseID.String())
	}
	if doc.CustomerID != nil {
		if exists, err := s.customers.Exists(ctx, *doc.CustomerID); err != nil {
			return fmt.Errorf("check customer: %w", err)
		} else if !exists {
			return apperror.NewNotFound("customer", doc.CustomerID.String())
		}
	}

	doc.ComputeTotal()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		available, err := s.stockSvc.AvailableForUpdate(ctx, doc.ItemID, doc.WarehouseID)
		if err != nil {
			return err
		}
		if available.Cmp(doc.Quantity) < 0 {
			return apperror.NewInsufficientStock(it.Name, available.Float64(), doc.Quantity.Float64())
		}

		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("SALE"), time.Now())
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		mv := stock.NewMovement(doc.ItemID, doc.WarehouseID, doc.Quantity.Neg(), stock.TypeSale).
			WithReference(referenceType, doc.Number).
			WithUnitCost(doc.UnitPrice)
		mv.MovementDate = doc.Date

		if _, err := s.stockSvc.RecordMovement(ctx, mv); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale recorded",
		"number", doc.Number,
		"item_id", doc.ItemID,
		"quantity", doc.Quantity.String(),
	)
	return nil
}

// GetByID retrieves a sale.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// List retrieves sales.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

// Delete detaches the header; the posted SALE movement stays in the ledger
// as history. Balances are not reversed.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.HardDelete(ctx, saleID); err != nil {
			return err
		}
		logger.Info(ctx, "sale deleted, movements preserved", "sale_id", saleID)
		return nil
	})
}

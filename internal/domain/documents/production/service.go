package production

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
const referenceType = "Production"

// Service provides business logic for Production documents.
type Service struct {
	repo       Repository
	items      item.Repository
	warehouses warehouse.Repository
	stockSvc   *stock.Service
	txManager  tx.Manager
	numerator  numerator.Generator
}

// NewService creates a new Production service.
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

// Record posts a production run in one transaction: every input balance is
// checked at the source warehouse under a row lock, the header and input
// rows are stored, one negative PRODUCTION movement is posted per input at
// the source warehouse, then one positive movement receives the output at
// the destination. Any failure rolls the whole run back.
func (s *Service) Record(ctx context.Context, p *Production) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	outputItem, err := s.items.GetByID(ctx, p.ItemID)
	if err != nil {
		return err
	}
	if exists, err := s.warehouses.Exists(ctx, p.WarehouseID); err != nil {
		return fmt.Errorf("check destination warehouse: %w", err)
	} else if !exists {
		return apperror.NewNotFound("warehouse", p.WarehouseID.String())
	}
	source := p.SourceWarehouse()
	if source != p.WarehouseID {
		if exists, err := s.warehouses.Exists(ctx, source); err != nil {
			return fmt.Errorf("check source warehouse: %w", err)
		} else if !exists {
			return apperror.NewNotFound("warehouse", source.String())
		}
	}

	// Load input items up front for sufficiency error messages
	inputItems := make(map[id.ID]*item.Item, len(p.Inputs))
	for _, in := range p.Inputs {
		if _, seen := inputItems[in.ItemID]; seen {
			continue
		}
		it, err := s.items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		inputItems[in.ItemID] = it
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Check all inputs before writing anything
		for _, in := range p.Inputs {
			available, err := s.stockSvc.AvailableForUpdate(ctx, in.ItemID, source)
			if err != nil {
				return err
			}
			if available.Cmp(in.Quantity) < 0 {
				return apperror.NewInsufficientStock(
					inputItems[in.ItemID].Name,
					available.Float64(),
					in.Quantity.Float64(),
				)
			}
		}

		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("PROD"), time.Now())
		if err != nil {
			return fmt.Errorf("generate production number: %w", err)
		}
		p.Number = number

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create production: %w", err)
		}

		// Consume inputs at the source warehouse
		for _, in := range p.Inputs {
			mv := stock.NewMovement(in.ItemID, source, in.Quantity.Neg(), stock.TypeProduction).
				WithReference(referenceType, p.Number)
			mv.MovementDate = p.Date

			if _, err := s.stockSvc.RecordMovement(ctx, mv); err != nil {
				return err
			}
		}

		// Receive the output at the destination warehouse
		out := stock.NewMovement(p.ItemID, p.WarehouseID, p.Quantity, stock.TypeProduction).
			WithReference(referenceType, p.Number)
		out.MovementDate = p.Date

		if _, err := s.stockSvc.RecordMovement(ctx, out); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "production recorded",
		"number", p.Number,
		"item", outputItem.Name,
		"quantity", p.Quantity.String(),
		"inputs", len(p.Inputs),
	)
	return nil
}

// GetByID retrieves a production with inputs.
func (s *Service) GetByID(ctx context.Context, productionID id.ID) (*Production, error) {
	return s.repo.GetByID(ctx, productionID)
}

// List retrieves production headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Production], error) {
	return s.repo.List(ctx, filter)
}

// Delete detaches the header and its input rows; posted PRODUCTION
// movements stay in the ledger as history. Balances are not reversed.
func (s *Service) Delete(ctx context.Context, productionID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.HardDelete(ctx, productionID); err != nil {
			return err
		}
		logger.Info(ctx, "production deleted, movements preserved", "production_id", productionID)
		return nil
	})
}

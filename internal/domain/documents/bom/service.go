package bom

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/item"
)

// Service provides business logic for bills of materials.
type Service struct {
	repo      Repository
	items     item.Repository
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new BOM service.
func NewService(
	repo Repository,
	items item.Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		txManager: txManager,
		numerator: gen,
	}
}

// Create validates the BOM, assigns a number and stores header with lines.
func (s *Service) Create(ctx context.Context, b *BOM) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkItems(ctx, b); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("BOM"), time.Now())
		if err != nil {
			return fmt.Errorf("generate bom number: %w", err)
		}
		b.Number = number

		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create bom: %w", err)
		}
		return nil
	})
}

// Update validates and rewrites the BOM with its lines.
func (s *Service) Update(ctx context.Context, b *BOM) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkItems(ctx, b); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update bom: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a BOM with lines.
func (s *Service) GetByID(ctx context.Context, bomID id.ID) (*BOM, error) {
	return s.repo.GetByID(ctx, bomID)
}

// List retrieves BOM headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BOM], error) {
	return s.repo.List(ctx, filter)
}

// ListActiveByItem returns active BOMs for a finished item.
func (s *Service) ListActiveByItem(ctx context.Context, itemID id.ID) ([]*BOM, error) {
	return s.repo.ListActiveByItem(ctx, itemID)
}

// Delete soft-deletes a BOM. Recorded productions keep their copied input
// rows, so history is unaffected.
func (s *Service) Delete(ctx context.Context, bomID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, bomID)
	})
}

// Scale loads a BOM and returns requirements for the requested quantity.
func (s *Service) Scale(ctx context.Context, bomID id.ID, requested types.Quantity) ([]ScaledRequirement, error) {
	if !requested.IsPositive() {
		return nil, apperror.NewValidation("requested quantity must be positive").
			WithDetail("field", "quantity")
	}

	b, err := s.repo.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	return b.Scale(requested), nil
}

// checkItems verifies every referenced item exists.
func (s *Service) checkItems(ctx context.Context, b *BOM) error {
	if exists, err := s.items.Exists(ctx, b.ItemID); err != nil {
		return fmt.Errorf("check item: %w", err)
	} else if !exists {
		return apperror.NewNotFound("item", b.ItemID.String())
	}

	for _, line := range b.Lines {
		if exists, err := s.items.Exists(ctx, line.ItemID); err != nil {
			return fmt.Errorf("check line item: %w", err)
		} else if !exists {
			return apperror.NewNotFound("item", line.ItemID.String())
		}
	}
	return nil
}

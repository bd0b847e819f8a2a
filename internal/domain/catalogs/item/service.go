package item

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.NextNumber(ctx, numerator.GlobalConfig("ITEM"), time.Now())
		if err != nil {
			return fmt.Errorf("generate item code: %w", err)
		}
		it.Code = code
		return nil
	}

	if exists, _ := s.repo.ExistsByCode(ctx, it.Code); exists {
		return apperror.NewDuplicate("item", "code", it.Code)
	}
	return nil
}

// FindLowStock retrieves items with stock at or below reorder level.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.FindLowStock(ctx, filter)
}

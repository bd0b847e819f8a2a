package warehouse

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Warehouse service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
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
func (s *Service) prepareForCreate(ctx context.Context, wh *Warehouse) error {
	if wh.Code == "" {
		code, err := s.numerator.NextNumber(ctx, numerator.GlobalConfig("WH"), time.Now())
		if err != nil {
			return fmt.Errorf("generate warehouse code: %w", err)
		}
		wh.Code = code
		return nil
	}

	if exists, _ := s.repo.ExistsByCode(ctx, wh.Code); exists {
		return apperror.NewDuplicate("warehouse", "code", wh.Code)
	}
	return nil
}

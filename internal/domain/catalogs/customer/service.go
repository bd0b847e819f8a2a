package customer

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/registers/ledger"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	ledgerSvc *ledger.Service
	numerator numerator.Generator
}

// NewService creates a new Customer service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	ledgerSvc *ledger.Service,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		ledgerSvc:      ledgerSvc,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().On(domain.AfterCreate, svc.postOpeningBalance)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
// Customer codes come from a global sequence that never resets (CUST001),
// unlike the year-scoped document numbers.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	// The cached balance starts at the opening balance; invoices and
	// payments move it from there.
	c.CurrentBalance = c.OpeningBalance

	if c.Code == "" {
		code, err := s.numerator.NextNumber(ctx, numerator.GlobalConfig("CUST"), time.Now())
		if err != nil {
			return fmt.Errorf("generate customer code: %w", err)
		}
		c.Code = code
		return nil
	}

	if exists, _ := s.repo.ExistsByCode(ctx, c.Code); exists {
		return apperror.NewDuplicate("customer", "code", c.Code)
	}
	return nil
}

// postOpeningBalance appends the OPENING_BALANCE ledger entry for customers
// onboarded with a pre-existing receivable. Positive balances debit the
// ledger, negative ones (the customer is owed) credit it.
func (s *Service) postOpeningBalance(ctx context.Context, c *Customer) error {
	if c.OpeningBalance.IsZero() {
		return nil
	}

	debit, credit := c.OpeningBalance, types.ZeroMoney()
	if c.OpeningBalance.IsNegative() {
		debit, credit = types.ZeroMoney(), c.OpeningBalance.Abs()
	}

	entry := ledger.NewEntry(c.ID, ledger.TypeOpeningBalance, debit, credit).
		WithReference("OPEN-" + c.Code).
		WithDescription("Opening Balance")

	return s.ledgerSvc.Append(ctx, entry)
}

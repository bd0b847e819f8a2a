package invoice

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
	"stockbook/internal/domain/registers/ledger"
	"stockbook/pkg/logger"
)

// Service provides business logic for invoices.
type Service struct {
	repo      Repository
	customers customer.Repository
	ledgerSvc *ledger.Service
	txManager tx.Manager
	numerator numerator.Generator
}

// NewService creates a new Invoice service.
func NewService(
	repo Repository,
	customers customer.Repository,
	ledgerSvc *ledger.Service,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		ledgerSvc: ledgerSvc,
		txManager: txManager,
		numerator: gen,
	}
}

// Create validates the invoice, computes totals, assigns a number and stores
// header with lines. Non-draft invoices append an INVOICE debit row to the
// customer ledger and refresh the customer's cached balance, all in one
// transaction.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if err := inv.Validate(ctx); err != nil {
		return err
	}

	if exists, err := s.customers.Exists(ctx, inv.CustomerID); err != nil {
		return fmt.Errorf("check customer: %w", err)
	} else if !exists {
		return apperror.NewNotFound("customer", inv.CustomerID.String())
	}

	inv.ComputeTotals()
	if inv.Status == "" {
		inv.Status = ComputeStatus(inv.TotalAmount, inv.BalanceAmount, inv.DueDate, time.Now().UTC())
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numerator.YearlyConfig("INV"), time.Now())
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}
		inv.Number = number

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		if inv.Status == StatusDraft {
			return nil
		}

		entry := ledger.NewEntry(inv.CustomerID, ledger.TypeInvoice, inv.TotalAmount, inv.PaidAmount).
			WithReference(inv.Number).
			WithDescription("Invoice " + inv.Number)
		entry.EntryDate = inv.Date

		if err := s.ledgerSvc.Append(ctx, entry); err != nil {
			return err
		}

		return s.RefreshCustomerBalance(ctx, inv.CustomerID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice created",
		"number", inv.Number,
		"customer_id", inv.CustomerID,
		"total", inv.TotalAmount.String(),
		"status", string(inv.Status),
	)
	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	return s.repo.GetByID(ctx, invoiceID)
}

// List retrieves invoice headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// RecalcFromAllocations re-derives an invoice's paid, balance and status
// from the full allocation sum. Called whenever allocations change and by
// reconciliation. Must run inside the caller's transaction for atomicity
// with the allocation writes.
func (s *Service) RecalcFromAllocations(ctx context.Context, invoiceID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		allocated, err := s.repo.SumAllocated(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("sum allocations: %w", err)
		}

		inv.ApplyAllocated(allocated, time.Now().UTC())

		if err := s.repo.UpdatePaymentState(ctx, invoiceID, inv.PaidAmount, inv.BalanceAmount, inv.Status); err != nil {
			return fmt.Errorf("update payment state: %w", err)
		}
		return nil
	})
}

// Cancel marks an invoice cancelled. Cancelled invoices drop out of the
// customer's receivable balance.
func (s *Service) Cancel(ctx context.Context, invoiceID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		if inv.PaidAmount.IsPositive() {
			return apperror.NewBusinessRule("INVOICE_HAS_PAYMENTS",
				"cannot cancel an invoice with recorded payments")
		}

		if err := s.repo.UpdateStatus(ctx, invoiceID, StatusCancelled); err != nil {
			return err
		}

		return s.RefreshCustomerBalance(ctx, inv.CustomerID)
	})
}

// RefreshCustomerBalance rewrites the customer's cached current_balance
// from the sum of open invoice balances.
func (s *Service) RefreshCustomerBalance(ctx context.Context, customerID id.ID) error {
	balance, err := s.repo.SumOpenBalanceByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("sum open balances: %w", err)
	}
	if err := s.customers.UpdateBalance(ctx, customerID, balance); err != nil {
		return fmt.Errorf("update customer balance: %w", err)
	}
	return nil
}

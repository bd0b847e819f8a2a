package payment

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
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/domain/registers/ledger"
	"stockbook/pkg/logger"
)

// Service provides business logic for payments.
type Service struct {
	repo       Repository
	customers  customer.Repository
	invoiceSvc *invoice.Service
	invoices   invoice.Repository
	ledgerSvc  *ledger.Service
	txManager  tx.Manager
	numerator  numerator.Generator
}

// NewService creates a new Payment service.
func NewService(
	repo Repository,
	customers customer.Repository,
	invoiceSvc *invoice.Service,
	invoices invoice.Repository,
	ledgerSvc *ledger.Service,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:       repo,
		customers:  customers,
		invoiceSvc: invoiceSvc,
		invoices:   invoices,
		ledgerSvc:  ledgerSvc,
		txManager:  txManager,
		numerator:  gen,
	}
}

// Create validates the payment and applies it atomically: payment and
// allocation rows are inserted, every touched invoice re-derives its paid,
// balance and status from the full allocation sum, one PAYMENT credit row
// goes to the customer ledger, and the customer's cached balance is
// refreshed from open invoices.
func (s *Service) Create(ctx context.Context, p *Payment) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if exists, err := s.customers.Exists(ctx, p.CustomerID); err != nil {
		return fmt.Errorf("check customer: %w", err)
	} else if !exists {
		return apperror.NewNotFound("customer", p.CustomerID.String())
	}

	// Every allocated invoice must exist and belong to the paying customer
	for _, a := range p.Allocations {
		inv, err := s.invoices.GetByID(ctx, a.InvoiceID)
		if err != nil {
			return err
		}
		if inv.CustomerID != p.CustomerID {
			return apperror.NewValidation("invoice does not belong to this customer").
				WithDetail("invoiceId", a.InvoiceID.String()).
				WithDetail("invoiceNo", inv.Number)
		}
		if inv.Status == invoice.StatusCancelled || inv.Status == invoice.StatusDraft {
			return apperror.NewBusinessRule("INVOICE_NOT_PAYABLE",
				"cannot allocate payment to a draft or cancelled invoice").
				WithDetail("invoiceNo", inv.Number).
				WithDetail("status", string(inv.Status))
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.NextNumber(ctx, numerator.GlobalConfig("PAY"), time.Now())
		if err != nil {
			return fmt.Errorf("generate payment number: %w", err)
		}
		p.Number = number

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		for _, a := range p.Allocations {
			if err := s.invoiceSvc.RecalcFromAllocations(ctx, a.InvoiceID); err != nil {
				return err
			}
		}

		entry := ledger.NewEntry(p.CustomerID, ledger.TypePayment, types.ZeroMoney(), p.Amount).
			WithReference(p.Number).
			WithDescription("Payment " + p.Number)
		entry.EntryDate = p.Date

		if err := s.ledgerSvc.Append(ctx, entry); err != nil {
			return err
		}

		return s.invoiceSvc.RefreshCustomerBalance(ctx, p.CustomerID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "payment recorded",
		"number", p.Number,
		"customer_id", p.CustomerID,
		"amount", p.Amount.String(),
		"allocations", len(p.Allocations),
	)
	return nil
}

// GetByID retrieves a payment with allocations.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// List retrieves payment headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a payment with its allocations, re-derives every touched
// invoice, appends a compensating ADJUSTMENT debit row to the ledger and
// refreshes the customer balance, all in one transaction.
func (s *Service) Delete(ctx context.Context, paymentID id.ID) error {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.HardDelete(ctx, paymentID); err != nil {
			return err
		}

		for _, a := range p.Allocations {
			if err := s.invoiceSvc.RecalcFromAllocations(ctx, a.InvoiceID); err != nil {
				return err
			}
		}

		entry := ledger.NewEntry(p.CustomerID, ledger.TypeAdjustment, p.Amount, types.ZeroMoney()).
			WithReference(p.Number).
			WithDescription("Payment " + p.Number + " deleted")

		if err := s.ledgerSvc.Append(ctx, entry); err != nil {
			return err
		}

		if err := s.invoiceSvc.RefreshCustomerBalance(ctx, p.CustomerID); err != nil {
			return err
		}

		logger.Info(ctx, "payment deleted", "number", p.Number, "payment_id", paymentID)
		return nil
	})
}

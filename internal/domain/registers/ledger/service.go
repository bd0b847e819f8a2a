package ledger

import (
	"context"
	"fmt"

	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
)

// Service provides append and query operations for the customer ledger.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Append computes the running balance against the customer's latest entry
// and inserts the row. Callers append from inside their own transactions;
// nested reuse keeps the ledger row atomic with the document write.
func (s *Service) Append(ctx context.Context, entry *Entry) error {
	if err := entry.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		last, err := s.repo.GetLastBalance(ctx, entry.CustomerID)
		if err != nil {
			return fmt.Errorf("get last balance: %w", err)
		}

		entry.RunningBalance = last.Add(entry.Delta())

		if err := s.repo.Append(ctx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		return nil
	})
}

// ListByCustomer returns the customer's ledger, oldest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID id.ID, filter Filter) ([]Entry, error) {
	return s.repo.ListByCustomer(ctx, customerID, filter)
}

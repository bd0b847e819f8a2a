package recon

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/pkg/logger"
)

// Service runs the startup reconciliation. Run blocks until every derived
// row agrees with its source ledger; the server starts serving only after
// it returns.
type Service struct {
	repo      Repository
	invoices  invoice.Repository
	customers customer.Repository
	txManager tx.Manager
}

// NewService creates a reconciliation service.
func NewService(
	repo Repository,
	invoices invoice.Repository,
	customers customer.Repository,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		customers: customers,
		txManager: txManager,
	}
}

// Run executes all reconciliation steps in order and returns a summary of
// the corrections applied. A clean database yields a zero summary.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	var summary Summary

	if err := s.reconcileBalances(ctx, &summary); err != nil {
		return summary, err
	}
	if err := s.reconcileItemStock(ctx, &summary); err != nil {
		return summary, err
	}
	if err := s.reconcileInvoices(ctx, &summary); err != nil {
		return summary, err
	}
	if err := s.reconcileCustomers(ctx, &summary); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(started)
	if summary.Clean() {
		logger.Info(ctx, "reconciliation clean", "duration", summary.Duration)
	} else {
		logger.Warn(ctx, "reconciliation applied corrections",
			"balances_corrected", summary.BalancesCorrected,
			"balances_deleted", summary.BalancesDeleted,
			"items_corrected", summary.ItemsCorrected,
			"invoices_corrected", summary.InvoicesCorrected,
			"customers_corrected", summary.CustomersCorrected,
			"duration", summary.Duration,
		)
	}
	return summary, nil
}

// reconcileBalances rewrites every balance row that disagrees with the sum
// of its movements, then removes balance rows no movement supports. Both
// passes share one transaction so a crash leaves either the old state or
// the fully corrected one.
func (s *Service) reconcileBalances(ctx context.Context, summary *Summary) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		drifts, err := s.repo.FindBalanceDrift(ctx)
		if err != nil {
			return fmt.Errorf("find balance drift: %w", err)
		}
		for _, d := range drifts {
			if err := s.repo.SetBalance(ctx, d.ItemID, d.WarehouseID, d.Computed); err != nil {
				return fmt.Errorf("set balance: %w", err)
			}
			summary.BalancesCorrected++
			logger.Warn(ctx, "corrected stock balance",
				"item_id", d.ItemID,
				"warehouse_id", d.WarehouseID,
				"stored", d.Stored.String(),
				"computed", d.Computed.String(),
				"missing_row", d.Missing,
			)
		}

		orphans, err := s.repo.FindOrphanBalances(ctx)
		if err != nil {
			return fmt.Errorf("find orphan balances: %w", err)
		}
		for _, o := range orphans {
			if err := s.repo.DeleteBalance(ctx, o.ItemID, o.WarehouseID); err != nil {
				return fmt.Errorf("delete orphan balance: %w", err)
			}
			summary.BalancesDeleted++
			logger.Warn(ctx, "deleted orphan stock balance",
				"item_id", o.ItemID,
				"warehouse_id", o.WarehouseID,
				"quantity", o.Quantity.String(),
			)
		}
		return nil
	})
}

func (s *Service) reconcileItemStock(ctx context.Context, summary *Summary) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		corrected, err := s.repo.RecalcAllItemStock(ctx)
		if err != nil {
			return fmt.Errorf("recalc item stock: %w", err)
		}
		summary.ItemsCorrected += int(corrected)
		return nil
	})
}

// reconcileInvoices re-derives every invoice's paid, balance and status
// from its allocation sum, rewriting only invoices that disagree. Each
// invoice gets its own short transaction.
func (s *Service) reconcileInvoices(ctx context.Context, summary *Summary) error {
	ids, err := s.invoices.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}

	now := time.Now().UTC()
	for _, invoiceID := range ids {
		changed := false
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			inv, err := s.invoices.GetForUpdate(ctx, invoiceID)
			if err != nil {
				return err
			}

			allocated, err := s.invoices.SumAllocated(ctx, invoiceID)
			if err != nil {
				return fmt.Errorf("sum allocations: %w", err)
			}

			prevPaid, prevBalance, prevStatus := inv.PaidAmount, inv.BalanceAmount, inv.Status
			inv.ApplyAllocated(allocated, now)
			if inv.PaidAmount.Equal(prevPaid) &&
				inv.BalanceAmount.Equal(prevBalance) &&
				inv.Status == prevStatus {
				return nil
			}

			changed = true
			logger.Warn(ctx, "corrected invoice payment state",
				"number", inv.Number,
				"paid", inv.PaidAmount.String(),
				"balance", inv.BalanceAmount.String(),
				"status", string(inv.Status),
				"prev_status", string(prevStatus),
			)
			return s.invoices.UpdatePaymentState(ctx, invoiceID, inv.PaidAmount, inv.BalanceAmount, inv.Status)
		})
		if err != nil {
			return fmt.Errorf("reconcile invoice %s: %w", invoiceID, err)
		}
		if changed {
			summary.InvoicesCorrected++
		}
	}
	return nil
}

// reconcileCustomers rewrites each customer's cached current_balance from
// the sum of open invoice balances when the two disagree.
func (s *Service) reconcileCustomers(ctx context.Context, summary *Summary) error {
	filter := domain.DefaultListFilter()
	filter.IncludeDeleted = true
	filter.Limit = 0

	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}

	for _, c := range customers.Items {
		balance, err := s.invoices.SumOpenBalanceByCustomer(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("sum open balances: %w", err)
		}
		if balance.Equal(c.CurrentBalance) {
			continue
		}

		if err := s.customers.UpdateBalance(ctx, c.ID, balance); err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}
		summary.CustomersCorrected++
		logger.Warn(ctx, "corrected customer balance",
			"code", c.Code,
			"stored", c.CurrentBalance.String(),
			"computed", balance.String(),
		)
	}
	return nil
}

package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/registers/ledger"
	"stockbook/internal/infrastructure/storage/postgres"
)

const ledgerTable = "customer_ledger"

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new customer ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[ledger.Entry](),
	}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *LedgerRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Append inserts one entry. Seq comes back from the database sequence and
// fixes the entry's place in insertion order.
func (r *LedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
	data := postgres.StructToMap(entry)
	delete(data, "seq")

	q := r.builder().
		Insert(ledgerTable).
		SetMap(data).
		Suffix("RETURNING seq")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&entry.Seq); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetLastBalance returns the running balance of the customer's latest entry
// by insertion order, zero when the ledger is empty.
func (r *LedgerRepo) GetLastBalance(ctx context.Context, customerID id.ID) (types.Money, error) {
	q := r.builder().
		Select("running_balance").
		From(ledgerTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("seq DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("build query: %w", err)
	}

	var balance types.Money
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ZeroMoney(), nil
	}
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("get last balance: %w", err)
	}
	return balance, nil
}

// ListByCustomer returns ledger entries for a customer, oldest first.
func (r *LedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter ledger.Filter) ([]ledger.Entry, error) {
	q := r.builder().
		Select(r.cols...).
		From(ledgerTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("seq ASC")

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"entry_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"entry_date": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []ledger.Entry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

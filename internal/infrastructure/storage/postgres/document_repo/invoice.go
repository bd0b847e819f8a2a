package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/infrastructure/storage/postgres"
)

const (
	invoiceLinesTable = "invoice_items"
	allocationsTable  = "payment_allocations"
)

// InvoiceRepo implements invoice.Repository backed by the invoices and
// invoice_items tables, with allocation sums read from payment_allocations.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
	lineCols []string
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a new Invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			"invoices",
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
		lineCols: postgres.ExtractDBColumns[invoice.Line](),
	}
}

// Create inserts header and lines. Callers run it inside a transaction.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := r.BaseDocumentRepo.Create(ctx, inv); err != nil {
		return err
	}
	if len(inv.Lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(invoiceLinesTable).
		Columns(r.lineCols...)

	for _, line := range inv.Lines {
		data := postgres.StructToMap(&line)
		vals := make([]any, 0, len(r.lineCols))
		for _, col := range r.lineCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert invoice lines: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice with its lines.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	inv, err := r.BaseDocumentRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByNumber retrieves an invoice by number with its lines.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	inv, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// List retrieves invoice headers with invoice-specific filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}

	return result, nil
}

// UpdatePaymentState rewrites the derived payment fields.
// Skips optimistic locking: the caller holds a FOR UPDATE lock on the row
// and the values are recomputed from allocations, never hand-edited.
func (r *InvoiceRepo) UpdatePaymentState(ctx context.Context, invoiceID id.ID, paid, balance types.Money, status invoice.Status) error {
	q := r.Builder().
		Update(r.tableName).
		Set("paid_amount", paid).
		Set("balance_amount", balance).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update payment state: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update payment state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, invoiceID.String())
	}
	return nil
}

// UpdateStatus rewrites only the status.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, invoiceID id.ID, status invoice.Status) error {
	q := r.Builder().
		Update(r.tableName).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, invoiceID.String())
	}
	return nil
}

// SumAllocated returns the sum of payment allocations against an invoice.
func (r *InvoiceRepo) SumAllocated(ctx context.Context, invoiceID id.ID) (types.Money, error) {
	q := r.Builder().
		Select("COALESCE(SUM(amount), 0)").
		From(allocationsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.ZeroMoney(), fmt.Errorf("sum allocated: %w", err)
	}
	return total, nil
}

// SumOpenBalanceByCustomer returns the customer's receivable: the sum of
// balance_amount over invoices in an open status.
func (r *InvoiceRepo) SumOpenBalanceByCustomer(ctx context.Context, customerID id.ID) (types.Money, error) {
	q := r.Builder().
		Select("COALESCE(SUM(balance_amount), 0)").
		From(r.tableName).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"status": []string{
			string(invoice.StatusUnpaid),
			string(invoice.StatusPartiallyPaid),
			string(invoice.StatusOverdue),
		}})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.ZeroMoney(), fmt.Errorf("sum open balances: %w", err)
	}
	return total, nil
}

// ListIDs returns all invoice IDs, used by reconciliation.
func (r *InvoiceRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(r.tableName).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.Querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list invoice ids: %w", err)
	}
	return ids, nil
}

func (r *InvoiceRepo) loadLines(ctx context.Context, inv *invoice.Invoice) error {
	q := r.Builder().
		Select(r.lineCols...).
		From(invoiceLinesTable).
		Where(squirrel.Eq{"invoice_id": inv.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build load lines: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &inv.Lines, sql, args...); err != nil {
		return fmt.Errorf("load invoice lines: %w", err)
	}
	return nil
}

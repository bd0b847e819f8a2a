package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
	"stockbook/internal/domain/documents/payment"
	"stockbook/internal/infrastructure/storage/postgres"
)

// PaymentRepo implements payment.Repository backed by the payments and
// payment_allocations tables.
type PaymentRepo struct {
	*BaseDocumentRepo[*payment.Payment]
	allocCols []string
}

var _ payment.Repository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a new Payment repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			"payments",
			postgres.ExtractDBColumns[payment.Payment](),
			func() *payment.Payment { return &payment.Payment{} },
		),
		allocCols: postgres.ExtractDBColumns[payment.Allocation](),
	}
}

// Create inserts payment and allocation rows. Callers run it inside a
// transaction.
func (r *PaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.BaseDocumentRepo.Create(ctx, p); err != nil {
		return err
	}
	if len(p.Allocations) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(allocationsTable).
		Columns(r.allocCols...)

	for _, a := range p.Allocations {
		data := postgres.StructToMap(&a)
		vals := make([]any, 0, len(r.allocCols))
		for _, col := range r.allocCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert allocations: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert allocations: %w", err)
	}
	return nil
}

// GetByID retrieves a payment with its allocations.
func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*payment.Payment, error) {
	p, err := r.BaseDocumentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByNumber retrieves a payment by number with its allocations.
func (r *PaymentRepo) GetByNumber(ctx context.Context, number string) (*payment.Payment, error) {
	p, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves payment headers with payment-specific filtering.
func (r *PaymentRepo) List(ctx context.Context, filter payment.ListFilter) (domain.ListResult[*payment.Payment], error) {
	result := domain.ListResult[*payment.Payment]{
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
		return result, fmt.Errorf("list payments: %w", err)
	}

	return result, nil
}

// HardDelete removes the payment and its allocation rows.
func (r *PaymentRepo) HardDelete(ctx context.Context, paymentID id.ID) error {
	q := r.Builder().
		Delete(allocationsTable).
		Where(squirrel.Eq{"payment_id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete allocations: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}

	return r.BaseDocumentRepo.HardDelete(ctx, paymentID)
}

func (r *PaymentRepo) loadAllocations(ctx context.Context, p *payment.Payment) error {
	q := r.Builder().
		Select(r.allocCols...).
		From(allocationsTable).
		Where(squirrel.Eq{"payment_id": p.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build load allocations: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &p.Allocations, sql, args...); err != nil {
		return fmt.Errorf("load allocations: %w", err)
	}
	return nil
}

package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/documents/production"
	"stockbook/internal/infrastructure/storage/postgres"
)

const productionInputsTable = "production_inputs"

// ProductionRepo implements production.Repository backed by the productions
// and production_inputs tables.
type ProductionRepo struct {
	*BaseDocumentRepo[*production.Production]
	inputCols []string
}

var _ production.Repository = (*ProductionRepo)(nil)

// NewProductionRepo creates a new Production repository.
func NewProductionRepo(txm *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			"productions",
			postgres.ExtractDBColumns[production.Production](),
			func() *production.Production { return &production.Production{} },
		),
		inputCols: postgres.ExtractDBColumns[production.Input](),
	}
}

// Create inserts header and input rows. Callers run it inside a transaction.
func (r *ProductionRepo) Create(ctx context.Context, p *production.Production) error {
	if err := r.BaseDocumentRepo.Create(ctx, p); err != nil {
		return err
	}
	if len(p.Inputs) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(productionInputsTable).
		Columns(r.inputCols...)

	for _, in := range p.Inputs {
		data := postgres.StructToMap(&in)
		vals := make([]any, 0, len(r.inputCols))
		for _, col := range r.inputCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert inputs: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert production inputs: %w", err)
	}
	return nil
}

// GetByID retrieves a production with its inputs.
func (r *ProductionRepo) GetByID(ctx context.Context, productionID id.ID) (*production.Production, error) {
	p, err := r.BaseDocumentRepo.GetByID(ctx, productionID)
	if err != nil {
		return nil, err
	}
	if err := r.loadInputs(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByNumber retrieves a production by number with its inputs.
func (r *ProductionRepo) GetByNumber(ctx context.Context, number string) (*production.Production, error) {
	p, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := r.loadInputs(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// HardDelete removes the header and its input rows.
func (r *ProductionRepo) HardDelete(ctx context.Context, productionID id.ID) error {
	q := r.Builder().
		Delete(productionInputsTable).
		Where(squirrel.Eq{"production_id": productionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete inputs: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete production inputs: %w", err)
	}

	return r.BaseDocumentRepo.HardDelete(ctx, productionID)
}

func (r *ProductionRepo) loadInputs(ctx context.Context, p *production.Production) error {
	q := r.Builder().
		Select(r.inputCols...).
		From(productionInputsTable).
		Where(squirrel.Eq{"production_id": p.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build load inputs: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &p.Inputs, sql, args...); err != nil {
		return fmt.Errorf("load production inputs: %w", err)
	}
	return nil
}

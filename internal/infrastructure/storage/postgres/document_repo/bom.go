package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/documents/bom"
	"stockbook/internal/infrastructure/storage/postgres"
)

const bomLinesTable = "bom_items"

// BOMRepo implements bom.Repository backed by the boms and bom_items tables.
type BOMRepo struct {
	*BaseDocumentRepo[*bom.BOM]
	lineCols []string
}

var _ bom.Repository = (*BOMRepo)(nil)

// NewBOMRepo creates a new BOM repository.
func NewBOMRepo(txm *postgres.TxManager) *BOMRepo {
	return &BOMRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			"boms",
			postgres.ExtractDBColumns[bom.BOM](),
			func() *bom.BOM { return &bom.BOM{} },
		),
		lineCols: postgres.ExtractDBColumns[bom.Line](),
	}
}

// Create inserts header and lines. Callers run it inside a transaction.
func (r *BOMRepo) Create(ctx context.Context, b *bom.BOM) error {
	if err := r.BaseDocumentRepo.Create(ctx, b); err != nil {
		return err
	}
	return r.insertLines(ctx, b)
}

// Update rewrites the header with optimistic locking and replaces the lines.
func (r *BOMRepo) Update(ctx context.Context, b *bom.BOM) error {
	if err := r.BaseDocumentRepo.Update(ctx, b); err != nil {
		return err
	}
	if err := r.deleteLines(ctx, b.ID); err != nil {
		return err
	}
	return r.insertLines(ctx, b)
}

// GetByID retrieves a BOM with its lines.
func (r *BOMRepo) GetByID(ctx context.Context, bomID id.ID) (*bom.BOM, error) {
	b, err := r.BaseDocumentRepo.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByNumber retrieves a BOM by document number with its lines.
func (r *BOMRepo) GetByNumber(ctx context.Context, number string) (*bom.BOM, error) {
	b, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListActiveByItem returns active BOMs producing the given item, with lines.
func (r *BOMRepo) ListActiveByItem(ctx context.Context, itemID id.ID) ([]*bom.BOM, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var boms []*bom.BOM
	if err := pgxscan.Select(ctx, r.Querier(ctx), &boms, sql, args...); err != nil {
		return nil, fmt.Errorf("list active by item: %w", err)
	}

	for _, b := range boms {
		if err := r.loadLines(ctx, b); err != nil {
			return nil, err
		}
	}
	return boms, nil
}

func (r *BOMRepo) insertLines(ctx context.Context, b *bom.BOM) error {
	if len(b.Lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(bomLinesTable).
		Columns(r.lineCols...)

	for _, line := range b.Lines {
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
		return fmt.Errorf("insert bom lines: %w", err)
	}
	return nil
}

func (r *BOMRepo) deleteLines(ctx context.Context, bomID id.ID) error {
	q := r.Builder().
		Delete(bomLinesTable).
		Where(squirrel.Eq{"bom_id": bomID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete bom lines: %w", err)
	}
	return nil
}

func (r *BOMRepo) loadLines(ctx context.Context, b *bom.BOM) error {
	q := r.Builder().
		Select(r.lineCols...).
		From(bomLinesTable).
		Where(squirrel.Eq{"bom_id": b.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build load lines: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &b.Lines, sql, args...); err != nil {
		return fmt.Errorf("load bom lines: %w", err)
	}
	return nil
}

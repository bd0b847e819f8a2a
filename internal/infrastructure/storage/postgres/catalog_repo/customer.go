package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/infrastructure/storage/postgres"
)

// CustomerRepo implements customer.Repository backed by the customers table.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new Customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// UpdateBalance overwrites the cached current_balance.
// Deliberately skips optimistic locking: the balance is derived state, and
// the writer (invoice/payment services, reconciliation) always recomputes
// it from open invoices first.
func (r *CustomerRepo) UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error {
	q := r.Builder().
		Update(r.tableName).
		Set("current_balance", balance).
		Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update balance: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, customerID.String())
	}

	return nil
}

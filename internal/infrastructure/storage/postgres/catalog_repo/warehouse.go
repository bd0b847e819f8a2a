package catalog_repo

import (
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/infrastructure/storage/postgres"
)

// WarehouseRepo implements warehouse.Repository backed by the warehouses table.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// NewWarehouseRepo creates a new Warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"warehouses",
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

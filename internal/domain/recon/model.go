// Package recon rebuilds derived state from the source-of-truth ledgers at
// startup: stock balances from movements, cached item stock from balances,
// invoice payment state from allocations and customer balances from open
// invoices. Running it twice in a row reports zero corrections the second
// time.
package recon

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// BalanceDrift is a (item, warehouse) pair whose stored balance disagrees
// with the sum of its movements. Missing marks pairs that have movements
// but no balance row at all.
type BalanceDrift struct {
	ItemID      id.ID          `db:"item_id"`
	WarehouseID id.ID          `db:"warehouse_id"`
	Stored      types.Quantity `db:"stored"`
	Computed    types.Quantity `db:"computed"`
	Missing     bool           `db:"missing"`
}

// OrphanBalance is a balance row with no movements behind it.
type OrphanBalance struct {
	ItemID      id.ID          `db:"item_id"`
	WarehouseID id.ID          `db:"warehouse_id"`
	Quantity    types.Quantity `db:"quantity"`
}

// Summary counts the corrections one run applied.
type Summary struct {
	BalancesCorrected  int           `json:"balancesCorrected"`
	BalancesDeleted    int           `json:"balancesDeleted"`
	ItemsCorrected     int           `json:"itemsCorrected"`
	InvoicesCorrected  int           `json:"invoicesCorrected"`
	CustomersCorrected int           `json:"customersCorrected"`
	Duration           time.Duration `json:"duration"`
}

// Clean reports whether the run found nothing to fix.
func (s Summary) Clean() bool {
	return s.BalancesCorrected == 0 &&
		s.BalancesDeleted == 0 &&
		s.ItemsCorrected == 0 &&
		s.InvoicesCorrected == 0 &&
		s.CustomersCorrected == 0
}

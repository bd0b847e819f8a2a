package document_repo

import (
	"stockbook/internal/domain/documents/purchase"
	"stockbook/internal/infrastructure/storage/postgres"
)

// PurchaseRepo implements purchase.Repository backed by the purchases table.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new Purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			"purchases",
			postgres.ExtractDBColumns[purchase.Purchase](),
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
	}
}

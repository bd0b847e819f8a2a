package purchase

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for Purchase documents.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, id id.ID) (*Purchase, error)
	GetByNumber(ctx context.Context, number string) (*Purchase, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Purchase], error)

	// HardDelete removes the header; posted movements stay behind
	HardDelete(ctx context.Context, id id.ID) error
}

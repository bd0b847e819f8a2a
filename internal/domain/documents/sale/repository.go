package sale

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/domain"
)

// Repository defines persistence operations for Sale documents.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)

	// HardDelete removes the header; posted movements stay behind
	HardDelete(ctx context.Context, id id.ID) error
}

// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"stockbook/internal/domain"
)

// IDResponse carries the ID of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// NumberResponse carries the assigned document number.
type NumberResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// SuccessResponse is a generic success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse builds a ListResponse from a domain list result.
func NewListResponse[T any](result domain.ListResult[T], items any) ListResponse {
	return ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// ListQuery contains common list query parameters.
type ListQuery struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	ActiveOnly     bool   `form:"activeOnly"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// ToFilter converts query parameters to a domain filter with defaults.
func (q *ListQuery) ToFilter() domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = q.Search
	filter.IncludeDeleted = q.IncludeDeleted
	filter.ActiveOnly = q.ActiveOnly
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	if q.Offset > 0 {
		filter.Offset = q.Offset
	}
	return filter
}

// ToDocumentFilter is ToFilter without the catalog name ordering default;
// document repositories fall back to date ordering when none is given.
func (q *ListQuery) ToDocumentFilter() domain.ListFilter {
	filter := q.ToFilter()
	filter.OrderBy = q.OrderBy
	return filter
}

package ledger

import (
	"context"
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository defines persistence operations for the customer ledger.
type Repository interface {
	// Append inserts one entry; Seq is assigned by the database
	Append(ctx context.Context, entry *Entry) error

	// GetLastBalance returns the running balance of the latest entry for the
	// customer by insertion order, zero when the ledger is empty
	GetLastBalance(ctx context.Context, customerID id.ID) (types.Money, error)

	// ListByCustomer returns entries for a customer, oldest first
	ListByCustomer(ctx context.Context, customerID id.ID, filter Filter) ([]Entry, error)
}

// Filter for ledger queries.
type Filter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

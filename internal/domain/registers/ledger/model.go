// Package ledger provides the append-only customer ledger register.
// Every receivable event (invoice, payment, adjustment, opening balance)
// appends one row carrying a running balance.
package ledger

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// EntryType classifies what event produced a ledger entry.
type EntryType string

const (
	TypeInvoice        EntryType = "INVOICE"
	TypePayment        EntryType = "PAYMENT"
	TypeAdjustment     EntryType = "ADJUSTMENT"
	TypeOpeningBalance EntryType = "OPENING_BALANCE"
)

// IsValidEntryType reports whether t is a known entry type.
func IsValidEntryType(t EntryType) bool {
	switch t {
	case TypeInvoice, TypePayment, TypeAdjustment, TypeOpeningBalance:
		return true
	}
	return false
}

// Entry is one append-only row of a customer's ledger.
// Seq is assigned by the database and fixes insertion order; the running
// balance of each row is computed against the previous row by Seq.
type Entry struct {
	ID  id.ID `db:"id" json:"id"`
	Seq int64 `db:"seq" json:"seq"`

	CustomerID id.ID     `db:"customer_id" json:"customerId"`
	EntryDate  time.Time `db:"entry_date" json:"entryDate"`

	Type EntryType `db:"entry_type" json:"entryType"`

	// ReferenceNo points at the originating document (invoice no, payment no)
	ReferenceNo *string `db:"reference_no" json:"referenceNo,omitempty"`

	Description *string `db:"description" json:"description,omitempty"`

	// Debit increases the receivable, credit decreases it
	Debit  types.Money `db:"debit" json:"debit"`
	Credit types.Money `db:"credit" json:"credit"`

	// RunningBalance after this entry
	RunningBalance types.Money `db:"running_balance" json:"runningBalance"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEntry creates a ledger entry. RunningBalance and Seq are assigned at
// append time.
func NewEntry(customerID id.ID, entryType EntryType, debit, credit types.Money) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:         id.New(),
		CustomerID: customerID,
		EntryDate:  now,
		Type:       entryType,
		Debit:      debit,
		Credit:     credit,
		CreatedAt:  now,
	}
}

// WithReference attaches the originating document number.
func (e *Entry) WithReference(refNo string) *Entry {
	e.ReferenceNo = &refNo
	return e
}

// WithDescription attaches a free-form description.
func (e *Entry) WithDescription(desc string) *Entry {
	e.Description = &desc
	return e
}

// Validate checks entry invariants.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if !IsValidEntryType(e.Type) {
		return apperror.NewValidation("invalid ledger entry type").
			WithDetail("field", "entryType").
			WithDetail("value", string(e.Type))
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return apperror.NewValidation("debit and credit cannot be negative")
	}
	return nil
}

// Delta returns the signed receivable change of this entry.
func (e *Entry) Delta() types.Money {
	return e.Debit.Sub(e.Credit)
}

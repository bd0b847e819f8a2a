package entity

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
)

// Document is the base type for business documents.
// Examples: Purchases, Sales, Productions, Invoices, Payments.
// Documents are numbered from year-scoped sequences and carry audit fields.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, e.g. SALE-2024-0001)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Remarks is a free-form comment
	Remarks *string `db:"remarks" json:"remarks,omitempty"`
}

// NewDocument creates a new Document with generated ID.
// Number is assigned by the service at save time.
func NewDocument(date time.Time) Document {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         date,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// SetRemarks sets the free-form comment, treating "" as absent.
func (d *Document) SetRemarks(remarks string) {
	if remarks == "" {
		d.Remarks = nil
	} else {
		d.Remarks = &remarks
	}
}

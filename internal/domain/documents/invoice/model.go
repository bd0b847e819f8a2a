// Package invoice provides customer invoices for accounts receivable.
// Paid and balance amounts are always derived from payment allocations;
// status is a pure function of totals and the due date.
package invoice

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusDraft         Status = "Draft"
	StatusUnpaid        Status = "Unpaid"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPaid          Status = "Paid"
	StatusOverdue       Status = "Overdue"
	StatusCancelled     Status = "Cancelled"
)

// IsOpen reports whether the status counts toward the customer's
// receivable balance.
func (s Status) IsOpen() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusOverdue:
		return true
	}
	return false
}

// ComputeStatus derives the payment status from totals and the due date.
// Pure: same inputs always give the same status.
// Paid when fully settled, Partially Paid when something but not all is
// allocated, Unpaid otherwise; a passed due date overrides any unsettled
// status with Overdue.
func ComputeStatus(total, balance types.Money, dueDate, now time.Time) Status {
	paid := total.Sub(balance)

	status := StatusUnpaid
	switch {
	case balance.IsZero() && total.IsPositive():
		status = StatusPaid
	case paid.IsPositive() && balance.IsPositive():
		status = StatusPartiallyPaid
	}

	if status != StatusPaid && !dueDate.IsZero() && now.After(dueDate) {
		status = StatusOverdue
	}

	return status
}

// Invoice is an invoice header with its line items.
type Invoice struct {
	entity.Document

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// DueDate is when payment falls due
	DueDate time.Time `db:"due_date" json:"dueDate"`

	// TotalAmount is the sum of line totals, computed at save time
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// PaidAmount is the sum of payment allocations against this invoice
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	// BalanceAmount = TotalAmount - PaidAmount
	BalanceAmount types.Money `db:"balance_amount" json:"balanceAmount"`

	Status Status `db:"status" json:"status"`

	// Lines are the invoice line items
	Lines []Line `db:"-" json:"lines"`
}

// Line is one invoice line item.
type Line struct {
	ID        id.ID `db:"id" json:"id"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	// ItemID is optional; free-text lines carry no catalog reference
	ItemID *id.ID `db:"item_id" json:"itemId,omitempty"`

	Description string `db:"description" json:"description"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// LineTotal = Quantity * UnitPrice, computed at save time
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewInvoice creates an Invoice with generated ID.
// Number is assigned at save time.
func NewInvoice(customerID id.ID, invoiceDate, dueDate time.Time) *Invoice {
	return &Invoice{
		Document:      entity.NewDocument(invoiceDate),
		CustomerID:    customerID,
		DueDate:       dueDate,
		TotalAmount:   types.ZeroMoney(),
		PaidAmount:    types.ZeroMoney(),
		BalanceAmount: types.ZeroMoney(),
		Status:        StatusUnpaid,
	}
}

// AddLine appends a line item.
func (inv *Invoice) AddLine(itemID *id.ID, description string, qty types.Quantity, unitPrice types.Money) {
	inv.Lines = append(inv.Lines, Line{
		ID:          id.New(),
		InvoiceID:   inv.ID,
		ItemID:      itemID,
		Description: description,
		Quantity:    qty,
		UnitPrice:   unitPrice,
	})
}

// Validate implements entity.Validatable interface.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if inv.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}
	if inv.DueDate.Before(inv.Date) {
		return apperror.NewValidation("due date cannot precede invoice date").
			WithDetail("field", "dueDate")
	}
	if len(inv.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range inv.Lines {
		if line.Description == "" {
			return apperror.NewValidation("line description is required").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("line", i)
		}
	}
	return nil
}

// ComputeTotals derives line totals and the invoice total in decimal.
// Paid and balance follow from the allocation state.
func (inv *Invoice) ComputeTotals() {
	total := types.ZeroMoney()
	for i := range inv.Lines {
		inv.Lines[i].LineTotal = inv.Lines[i].Quantity.Decimal().Mul(inv.Lines[i].UnitPrice)
		total = total.Add(inv.Lines[i].LineTotal)
	}
	inv.TotalAmount = total
	inv.BalanceAmount = total.Sub(inv.PaidAmount)
}

// ApplyAllocated sets the payment state from the full allocation sum and
// recomputes status, preserving Draft and Cancelled.
func (inv *Invoice) ApplyAllocated(allocated types.Money, now time.Time) {
	inv.PaidAmount = allocated
	inv.BalanceAmount = inv.TotalAmount.Sub(allocated)

	if inv.Status == StatusDraft || inv.Status == StatusCancelled {
		return
	}
	inv.Status = ComputeStatus(inv.TotalAmount, inv.BalanceAmount, inv.DueDate, now)
}

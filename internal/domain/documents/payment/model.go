// Package payment provides customer payments and their allocations to
// invoices. A payment's allocations must sum to the payment amount within
// a fixed tolerance.
package payment

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Payment records money received from a customer, split over invoices.
type Payment struct {
	entity.Document

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	Amount types.Money `db:"amount" json:"amount"`

	// Method is the payment method (cash, bank transfer, ...)
	Method *string `db:"method" json:"method,omitempty"`

	// Reference is an external reference (bank slip, cheque no)
	Reference *string `db:"reference" json:"reference,omitempty"`

	// Allocations split the amount over invoices
	Allocations []Allocation `db:"-" json:"allocations"`
}

// Allocation applies part of a payment to one invoice.
type Allocation struct {
	ID        id.ID       `db:"id" json:"id"`
	PaymentID id.ID       `db:"payment_id" json:"paymentId"`
	InvoiceID id.ID       `db:"invoice_id" json:"invoiceId"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewPayment creates a Payment with generated ID.
// Number is assigned at save time (PAY-numbered, global sequence).
func NewPayment(customerID id.ID, amount types.Money, date time.Time) *Payment {
	return &Payment{
		Document:   entity.NewDocument(date),
		CustomerID: customerID,
		Amount:     amount,
	}
}

// AddAllocation applies part of the amount to an invoice.
func (p *Payment) AddAllocation(invoiceID id.ID, amount types.Money) {
	p.Allocations = append(p.Allocations, Allocation{
		ID:        id.New(),
		PaymentID: p.ID,
		InvoiceID: invoiceID,
		Amount:    amount,
	})
}

// AllocatedTotal returns the sum of allocation amounts.
func (p *Payment) AllocatedTotal() types.Money {
	total := types.ZeroMoney()
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// Validate implements entity.Validatable interface.
// The allocation sum must match the payment amount within the tolerance;
// anything else rejects the whole payment.
func (p *Payment) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	if len(p.Allocations) == 0 {
		return apperror.NewValidation("at least one allocation is required").
			WithDetail("field", "allocations")
	}
	for i, a := range p.Allocations {
		if id.IsNil(a.InvoiceID) {
			return apperror.NewValidation("allocation invoice is required").
				WithDetail("allocation", i)
		}
		if !a.Amount.IsPositive() {
			return apperror.NewValidation("allocation amount must be positive").
				WithDetail("allocation", i)
		}
	}

	allocated := p.AllocatedTotal()
	if p.Amount.Sub(allocated).Abs().Cmp(types.AllocationTolerance) > 0 {
		return apperror.NewAllocationMismatch(p.Amount.String(), allocated.String())
	}

	return nil
}

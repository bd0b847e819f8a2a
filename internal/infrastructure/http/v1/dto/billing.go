package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/domain/documents/payment"
	"stockbook/internal/domain/registers/ledger"
)

// --- Invoices ---

// InvoiceLineRequest is one invoice line item.
type InvoiceLineRequest struct {
	ItemID      *id.ID         `json:"itemId"`
	Description string         `json:"description" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	UnitPrice   types.Money    `json:"unitPrice"`
}

// CreateInvoiceRequest is the request body for creating an invoice.
// Draft invoices stay out of the receivable until promoted.
type CreateInvoiceRequest struct {
	CustomerID id.ID                `json:"customerId" binding:"required"`
	Date       *time.Time           `json:"date"`
	DueDate    time.Time            `json:"dueDate" binding:"required"`
	Draft      bool                 `json:"draft"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"required"`
	Remarks    *string              `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	inv := invoice.NewInvoice(r.CustomerID, date, r.DueDate)
	inv.Remarks = r.Remarks
	if r.Draft {
		inv.Status = invoice.StatusDraft
	}
	for _, line := range r.Lines {
		inv.AddLine(line.ItemID, line.Description, line.Quantity, line.UnitPrice)
	}
	return inv
}

// InvoiceQuery contains invoice list query parameters.
type InvoiceQuery struct {
	ListQuery
	CustomerID *id.ID  `form:"customerId"`
	Status     *string `form:"status"`
}

// ToInvoiceFilter converts query parameters to an invoice filter.
func (q *InvoiceQuery) ToInvoiceFilter() invoice.ListFilter {
	filter := invoice.ListFilter{
		ListFilter: q.ToFilter(),
		CustomerID: q.CustomerID,
	}
	filter.OrderBy = q.OrderBy
	if q.Status != nil {
		s := invoice.Status(*q.Status)
		filter.Status = &s
	}
	return filter
}

// --- Payments ---

// AllocationRequest applies part of a payment to one invoice.
type AllocationRequest struct {
	InvoiceID id.ID       `json:"invoiceId" binding:"required"`
	Amount    types.Money `json:"amount" binding:"required"`
}

// CreatePaymentRequest is the request body for recording a payment.
// Allocations must sum to the amount within the tolerance.
type CreatePaymentRequest struct {
	CustomerID  id.ID               `json:"customerId" binding:"required"`
	Amount      types.Money         `json:"amount" binding:"required"`
	Method      *string             `json:"method"`
	Reference   *string             `json:"reference"`
	Date        *time.Time          `json:"date"`
	Allocations []AllocationRequest `json:"allocations" binding:"required"`
	Remarks     *string             `json:"remarks"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePaymentRequest) ToEntity() *payment.Payment {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	p := payment.NewPayment(r.CustomerID, r.Amount, date)
	p.Method = r.Method
	p.Reference = r.Reference
	p.Remarks = r.Remarks
	for _, a := range r.Allocations {
		p.AddAllocation(a.InvoiceID, a.Amount)
	}
	return p
}

// PaymentQuery contains payment list query parameters.
type PaymentQuery struct {
	ListQuery
	CustomerID *id.ID `form:"customerId"`
}

// ToPaymentFilter converts query parameters to a payment filter.
func (q *PaymentQuery) ToPaymentFilter() payment.ListFilter {
	filter := payment.ListFilter{
		ListFilter: q.ToFilter(),
		CustomerID: q.CustomerID,
	}
	filter.OrderBy = q.OrderBy
	return filter
}

// --- Customer ledger ---

// LedgerQuery contains customer ledger query parameters.
type LedgerQuery struct {
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit    int        `form:"limit"`
	Offset   int        `form:"offset"`
}

// ToFilter converts query parameters to a ledger filter.
func (q *LedgerQuery) ToFilter() ledger.Filter {
	return ledger.Filter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
}

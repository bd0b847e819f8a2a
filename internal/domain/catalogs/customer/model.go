// Package customer provides the Customer catalog for accounts receivable.
package customer

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/types"
)

// Customer represents a buyer with an accounts-receivable balance.
type Customer struct {
	entity.Catalog

	// Contact fields
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	Address       *string `db:"address" json:"address,omitempty"`

	// CreditLimit caps outstanding receivables (0 = unlimited)
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`

	// OpeningBalance is the receivable carried in at onboarding
	OpeningBalance types.Money `db:"opening_balance" json:"openingBalance"`

	// CurrentBalance is a cached sum of balance_amount over open invoices.
	// Maintained by the invoice/payment services and reconciliation.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`

	// IsActive allows retiring a customer without deleting history
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewCustomer creates a new Customer with required fields.
// Code is assigned by the service (CUST-numbered) when blank.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog:        entity.NewCatalog(code, name),
		CreditLimit:    types.ZeroMoney(),
		OpeningBalance: types.ZeroMoney(),
		CurrentBalance: types.ZeroMoney(),
		IsActive:       true,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit")
	}

	return nil
}

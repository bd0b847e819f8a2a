package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 14)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		total   string
		balance string
		dueDate time.Time
		want    Status
	}{
		{"nothing paid", "100.00", "100.00", future, StatusUnpaid},
		{"partially paid", "100.00", "40.00", future, StatusPartiallyPaid},
		{"fully paid", "100.00", "0.00", future, StatusPaid},
		{"unpaid past due", "100.00", "100.00", past, StatusOverdue},
		{"partial past due", "100.00", "40.00", past, StatusOverdue},
		{"paid past due stays paid", "100.00", "0.00", past, StatusPaid},
		{"zero total", "0.00", "0.00", future, StatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatus(types.MustMoney(tt.total), types.MustMoney(tt.balance), tt.dueDate, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeStatusIsPure(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 7)
	total := types.MustMoney("250.00")
	balance := types.MustMoney("250.00")

	first := ComputeStatus(total, balance, due, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeStatus(total, balance, due, now))
	}
}

func TestComputeTotals(t *testing.T) {
	customerID := id.New()
	inv := NewInvoice(customerID, time.Now(), time.Now().AddDate(0, 0, 30))
	inv.AddLine(nil, "Widget", types.NewQuantityFromFloat64(2), types.MustMoney("10.50"))
	inv.AddLine(nil, "Service fee", types.NewQuantityFromFloat64(1.5), types.MustMoney("40.00"))

	inv.ComputeTotals()

	assert.True(t, inv.Lines[0].LineTotal.Equal(types.MustMoney("21.00")), "got %s", inv.Lines[0].LineTotal)
	assert.True(t, inv.Lines[1].LineTotal.Equal(types.MustMoney("60.00")), "got %s", inv.Lines[1].LineTotal)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("81.00")), "got %s", inv.TotalAmount)
	assert.True(t, inv.BalanceAmount.Equal(types.MustMoney("81.00")))
}

func TestApplyAllocated(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	inv := NewInvoice(id.New(), now, now.AddDate(0, 0, 30))
	inv.AddLine(nil, "Widget", types.NewQuantityFromFloat64(10), types.MustMoney("10.00"))
	inv.ComputeTotals()

	inv.ApplyAllocated(types.MustMoney("30.00"), now)
	assert.Equal(t, StatusPartiallyPaid, inv.Status)
	assert.True(t, inv.BalanceAmount.Equal(types.MustMoney("70.00")))

	inv.ApplyAllocated(types.MustMoney("100.00"), now)
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.BalanceAmount.IsZero())
}

func TestApplyAllocatedPreservesDraftAndCancelled(t *testing.T) {
	now := time.Now().UTC()

	for _, status := range []Status{StatusDraft, StatusCancelled} {
		inv := NewInvoice(id.New(), now, now.AddDate(0, 0, 30))
		inv.AddLine(nil, "Widget", types.NewQuantityFromFloat64(1), types.MustMoney("50.00"))
		inv.ComputeTotals()
		inv.Status = status

		inv.ApplyAllocated(types.MustMoney("50.00"), now)
		assert.Equal(t, status, inv.Status)
	}
}

func TestStatusIsOpen(t *testing.T) {
	assert.True(t, StatusUnpaid.IsOpen())
	assert.True(t, StatusPartiallyPaid.IsOpen())
	assert.True(t, StatusOverdue.IsOpen())
	assert.False(t, StatusDraft.IsOpen())
	assert.False(t, StatusPaid.IsOpen())
	assert.False(t, StatusCancelled.IsOpen())
}

func TestInvoiceValidate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("valid", func(t *testing.T) {
		inv := NewInvoice(id.New(), now, now.AddDate(0, 0, 30))
		inv.AddLine(nil, "Widget", types.NewQuantityFromFloat64(1), types.MustMoney("10.00"))
		require.NoError(t, inv.Validate(ctx))
	})

	t.Run("due date before invoice date", func(t *testing.T) {
		inv := NewInvoice(id.New(), now, now.AddDate(0, 0, -1))
		inv.AddLine(nil, "Widget", types.NewQuantityFromFloat64(1), types.MustMoney("10.00"))
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("no lines", func(t *testing.T) {
		inv := NewInvoice(id.New(), now, now.AddDate(0, 0, 30))
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("zero quantity line", func(t *testing.T) {
		inv := NewInvoice(id.New(), now, now.AddDate(0, 0, 30))
		inv.AddLine(nil, "Widget", 0, types.MustMoney("10.00"))
		assert.Error(t, inv.Validate(ctx))
	})
}

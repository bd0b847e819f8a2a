package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

func newTestPayment(amount string) *Payment {
	return NewPayment(id.New(), types.MustMoney(amount), time.Now().UTC())
}

func TestPaymentValidate_AllocationSum(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		p := newTestPayment("100.00")
		p.AddAllocation(id.New(), types.MustMoney("60.00"))
		p.AddAllocation(id.New(), types.MustMoney("40.00"))
		require.NoError(t, p.Validate(ctx))
	})

	t.Run("within tolerance", func(t *testing.T) {
		p := newTestPayment("100.00")
		p.AddAllocation(id.New(), types.MustMoney("60.00"))
		p.AddAllocation(id.New(), types.MustMoney("39.99"))
		require.NoError(t, p.Validate(ctx))
	})

	t.Run("outside tolerance", func(t *testing.T) {
		p := newTestPayment("100.00")
		p.AddAllocation(id.New(), types.MustMoney("60.00"))
		p.AddAllocation(id.New(), types.MustMoney("39.98"))

		err := p.Validate(ctx)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeAllocationMismatch, appErr.Code)
	})

	t.Run("over-allocated", func(t *testing.T) {
		p := newTestPayment("50.00")
		p.AddAllocation(id.New(), types.MustMoney("60.00"))
		assert.Error(t, p.Validate(ctx))
	})
}

func TestPaymentValidate_Basics(t *testing.T) {
	ctx := context.Background()

	t.Run("no allocations", func(t *testing.T) {
		p := newTestPayment("100.00")
		assert.Error(t, p.Validate(ctx))
	})

	t.Run("zero amount", func(t *testing.T) {
		p := newTestPayment("0.00")
		p.AddAllocation(id.New(), types.MustMoney("0.00"))
		assert.Error(t, p.Validate(ctx))
	})

	t.Run("negative allocation", func(t *testing.T) {
		p := newTestPayment("100.00")
		p.AddAllocation(id.New(), types.MustMoney("110.00"))
		p.AddAllocation(id.New(), types.MustMoney("-10.00"))
		assert.Error(t, p.Validate(ctx))
	})
}

func TestAllocatedTotal(t *testing.T) {
	p := newTestPayment("75.50")
	p.AddAllocation(id.New(), types.MustMoney("25.50"))
	p.AddAllocation(id.New(), types.MustMoney("50.00"))

	assert.True(t, p.AllocatedTotal().Equal(types.MustMoney("75.50")))
}

package bom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

func TestScale(t *testing.T) {
	flour := id.New()
	sugar := id.New()

	b := NewBOM("Cake batch", id.New(), types.NewQuantityFromFloat64(10))
	b.AddLine(flour, types.NewQuantityFromFloat64(5))
	b.AddLine(sugar, types.NewQuantityFromFloat64(2.5))

	t.Run("scale up", func(t *testing.T) {
		reqs := b.Scale(types.NewQuantityFromFloat64(20))
		require.Len(t, reqs, 2)
		assert.Equal(t, flour, reqs[0].ItemID)
		assert.Equal(t, types.NewQuantityFromFloat64(10), reqs[0].Quantity)
		assert.Equal(t, sugar, reqs[1].ItemID)
		assert.Equal(t, types.NewQuantityFromFloat64(5), reqs[1].Quantity)
	})

	t.Run("scale down fractional", func(t *testing.T) {
		reqs := b.Scale(types.NewQuantityFromFloat64(1))
		assert.Equal(t, types.NewQuantityFromFloat64(0.5), reqs[0].Quantity)
		assert.Equal(t, types.NewQuantityFromFloat64(0.25), reqs[1].Quantity)
	})

	t.Run("identity at base quantity", func(t *testing.T) {
		reqs := b.Scale(b.OutputQuantity)
		assert.Equal(t, b.Lines[0].Quantity, reqs[0].Quantity)
		assert.Equal(t, b.Lines[1].Quantity, reqs[1].Quantity)
	})
}

func TestScaleRoundsToQuantityScale(t *testing.T) {
	b := NewBOM("Thirds", id.New(), types.NewQuantityFromFloat64(3))
	b.AddLine(id.New(), types.NewQuantityFromFloat64(1))

	// 1 * 1/3 cannot be represented exactly; rounded at 4 digits
	reqs := b.Scale(types.NewQuantityFromFloat64(1))
	assert.Equal(t, types.NewQuantityFromInt64Scaled(3333), reqs[0].Quantity)
}

func TestBOMValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		b := NewBOM("Cake batch", id.New(), types.NewQuantityFromFloat64(10))
		b.AddLine(id.New(), types.NewQuantityFromFloat64(5))
		require.NoError(t, b.Validate(ctx))
	})

	t.Run("no lines", func(t *testing.T) {
		b := NewBOM("Cake batch", id.New(), types.NewQuantityFromFloat64(10))
		assert.Error(t, b.Validate(ctx))
	})

	t.Run("zero output quantity", func(t *testing.T) {
		b := NewBOM("Cake batch", id.New(), 0)
		b.AddLine(id.New(), types.NewQuantityFromFloat64(5))
		assert.Error(t, b.Validate(ctx))
	})

	t.Run("negative line quantity", func(t *testing.T) {
		b := NewBOM("Cake batch", id.New(), types.NewQuantityFromFloat64(10))
		b.AddLine(id.New(), types.NewQuantityFromFloat64(-1))
		assert.Error(t, b.Validate(ctx))
	})
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityString(t *testing.T) {
	tests := []struct {
		name string
		q    Quantity
		want string
	}{
		{"zero", 0, "0.0000"},
		{"whole", NewQuantityFromFloat64(5), "5.0000"},
		{"fractional", NewQuantityFromFloat64(2.5), "2.5000"},
		{"four digits", NewQuantityFromInt64Scaled(12345), "1.2345"},
		{"negative", NewQuantityFromFloat64(-0.25), "-0.2500"},
		{"negative whole", NewQuantityFromFloat64(-10), "-10.0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.String())
		})
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := NewQuantityFromInt64Scaled(32500) // 3.25

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "3.2500", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quantity
		wantErr bool
	}{
		{"integer", `7`, 70000, false},
		{"decimal", `1.5`, 15000, false},
		{"string form", `"2.25"`, 22500, false},
		{"negative", `-3.1`, -31000, false},
		{"bare dot fraction", `0.0001`, 1, false},
		{"extra digits truncated", `1.00009`, 10000, false},
		{"null", `null`, 0, false},
		{"garbage", `"abc"`, 0, true},
		{"bare minus", `"-"`, 0, true},
		{"bare dot", `"."`, 0, true},
		{"bare sign", `"+"`, 0, true},
		{"sign and dot only", `"-."`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.input), &q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantityMulRatio(t *testing.T) {
	base := NewQuantityFromFloat64(10)     // batch size
	line := NewQuantityFromFloat64(2.5)    // per batch
	requested := NewQuantityFromFloat64(4) // output wanted

	got := line.MulRatio(requested, base)
	assert.Equal(t, NewQuantityFromFloat64(1), got)

	// zero denominator yields zero, not a panic
	assert.Equal(t, Quantity(0), line.MulRatio(requested, 0))
}

func TestQuantityDecimal(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	price := MustMoney("3.20")

	total := q.Decimal().Mul(price)
	assert.True(t, total.Equal(MustMoney("8.00")), "got %s", total)
}

func TestQuantityArithmetic(t *testing.T) {
	a := NewQuantityFromFloat64(5)
	b := NewQuantityFromFloat64(2)

	assert.Equal(t, NewQuantityFromFloat64(7), a.Add(b))
	assert.Equal(t, NewQuantityFromFloat64(3), a.Sub(b))
	assert.Equal(t, NewQuantityFromFloat64(-5), a.Neg())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, 0, a.Cmp(a))
	assert.True(t, a.Sub(a).IsZero())
	assert.Equal(t, NewQuantityFromFloat64(5), a.Neg().Abs())
}

func TestAllocationTolerance(t *testing.T) {
	assert.True(t, AllocationTolerance.Equal(MustMoney("0.01")))
}

package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "stockbook/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences: one counter per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	calls    int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key, _ := args[0].(string)

	if len(args) == 2 {
		// SetNextNumber path: current_val = $2
		if val, ok := args[1].(int64); ok {
			m.counters[key] = val
			return &mockRow{val: val}
		}
	}

	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestNextNumber_Yearly(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()
	cfg := core.YearlyConfig("STK")
	period := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "STK-2024-0001", num)

	num, err = svc.NextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "STK-2024-0002", num)

	assert.Equal(t, int64(2), q.counters["STK_last_no_2024"])
}

func TestNextNumber_YearBoundaryResetsCounter(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()
	cfg := core.YearlyConfig("PROD")

	dec := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(ctx, cfg, dec)
	require.NoError(t, err)
	assert.Equal(t, "PROD-2024-0001", num)

	// New year uses a fresh sequence key, so the counter starts over
	num, err = svc.NextNumber(ctx, cfg, jan)
	require.NoError(t, err)
	assert.Equal(t, "PROD-2025-0001", num)

	assert.Equal(t, int64(1), q.counters["PROD_last_no_2024"])
	assert.Equal(t, int64(1), q.counters["PROD_last_no_2025"])
}

func TestNextNumber_GlobalSequence(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()
	cfg := core.GlobalConfig("PAY")

	num, err := svc.NextNumber(ctx, cfg, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PAY001", num)

	// Global sequences never reset, even across years
	num, err = svc.NextNumber(ctx, cfg, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PAY002", num)

	assert.Equal(t, int64(2), q.counters["PAY_last_no"])
}

func TestSetNextNumber(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q)
	ctx := context.Background()
	cfg := core.YearlyConfig("INV")
	period := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := svc.SetNextNumber(ctx, cfg, period, 41)
	require.NoError(t, err)

	num, err := svc.NextNumber(ctx, cfg, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0042", num)
}

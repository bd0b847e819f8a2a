package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockLedgerRepo keeps entries in insertion order per customer.
type mockLedgerRepo struct {
	entries []*Entry
}

func (m *mockLedgerRepo) Append(ctx context.Context, entry *Entry) error {
	entry.Seq = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedgerRepo) GetLastBalance(ctx context.Context, customerID id.ID) (types.Money, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].CustomerID == customerID {
			return m.entries[i].RunningBalance, nil
		}
	}
	return types.ZeroMoney(), nil
}

func (m *mockLedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter Filter) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func TestAppend_RunningBalance(t *testing.T) {
	ctx := context.Background()
	repo := &mockLedgerRepo{}
	svc := NewService(repo, stubTxManager{})
	customerID := id.New()

	// Invoice debits, payment credits
	inv := NewEntry(customerID, TypeInvoice, types.MustMoney("150.00"), types.ZeroMoney())
	require.NoError(t, svc.Append(ctx, inv))
	assert.True(t, inv.RunningBalance.Equal(types.MustMoney("150.00")))

	pay := NewEntry(customerID, TypePayment, types.ZeroMoney(), types.MustMoney("50.00"))
	require.NoError(t, svc.Append(ctx, pay))
	assert.True(t, pay.RunningBalance.Equal(types.MustMoney("100.00")))

	adj := NewEntry(customerID, TypeAdjustment, types.ZeroMoney(), types.MustMoney("100.00"))
	require.NoError(t, svc.Append(ctx, adj))
	assert.True(t, adj.RunningBalance.IsZero())
}

func TestAppend_BalancesArePerCustomer(t *testing.T) {
	ctx := context.Background()
	repo := &mockLedgerRepo{}
	svc := NewService(repo, stubTxManager{})
	first, second := id.New(), id.New()

	a := NewEntry(first, TypeInvoice, types.MustMoney("30.00"), types.ZeroMoney())
	require.NoError(t, svc.Append(ctx, a))

	b := NewEntry(second, TypeInvoice, types.MustMoney("70.00"), types.ZeroMoney())
	require.NoError(t, svc.Append(ctx, b))

	assert.True(t, a.RunningBalance.Equal(types.MustMoney("30.00")))
	assert.True(t, b.RunningBalance.Equal(types.MustMoney("70.00")))
}

func TestAppend_RejectsInvalidEntry(t *testing.T) {
	ctx := context.Background()
	repo := &mockLedgerRepo{}
	svc := NewService(repo, stubTxManager{})

	bad := NewEntry(id.New(), EntryType("BOGUS"), types.ZeroMoney(), types.ZeroMoney())
	assert.Error(t, svc.Append(ctx, bad))
	assert.Empty(t, repo.entries)
}

package customer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/registers/ledger"
)

// --- Mocks ---

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubNumerator struct {
	n int64
}

func (s *stubNumerator) NextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	s.n++
	return cfg.Format(period, s.n), nil
}

type mockCustomerRepo struct {
	created []*Customer
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *Customer) error {
	m.created = append(m.created, c)
	return nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	for _, c := range m.created {
		if c.ID == customerID {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", customerID.String())
}

func (m *mockCustomerRepo) GetByCode(ctx context.Context, code string) (*Customer, error) {
	for _, c := range m.created {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", code)
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *Customer) error { return nil }

func (m *mockCustomerRepo) SetDeletionMark(ctx context.Context, customerID id.ID, marked bool) error {
	return nil
}

func (m *mockCustomerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	return domain.ListResult[*Customer]{Items: m.created}, nil
}

func (m *mockCustomerRepo) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	return false, nil
}

func (m *mockCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, c := range m.created {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error) {
	return m.GetByID(ctx, customerID)
}

func (m *mockCustomerRepo) UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error {
	c, err := m.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	c.CurrentBalance = balance
	return nil
}

type mockLedgerRepo struct {
	entries []*ledger.Entry
}

func (m *mockLedgerRepo) Append(ctx context.Context, entry *ledger.Entry) error {
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

func (m *mockLedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter ledger.Filter) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// --- Tests ---

func newFixture() (*Service, *mockCustomerRepo, *mockLedgerRepo) {
	repo := &mockCustomerRepo{}
	ledgerRepo := &mockLedgerRepo{}
	ledgerSvc := ledger.NewService(ledgerRepo, stubTxManager{})
	svc := NewService(repo, stubTxManager{}, ledgerSvc, &stubNumerator{})
	return svc, repo, ledgerRepo
}

func TestCreate_OpeningBalancePostsLedgerEntry(t *testing.T) {
	svc, repo, ledgerRepo := newFixture()
	ctx := context.Background()

	c := NewCustomer("", "Acme")
	c.OpeningBalance = types.MustMoney("500.00")

	require.NoError(t, svc.Create(ctx, c))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "CUST001", c.Code)

	// The cached balance starts at the opening balance
	assert.True(t, c.CurrentBalance.Equal(types.MustMoney("500.00")))

	require.Len(t, ledgerRepo.entries, 1)
	entry := ledgerRepo.entries[0]
	assert.Equal(t, c.ID, entry.CustomerID)
	assert.Equal(t, ledger.TypeOpeningBalance, entry.Type)
	assert.True(t, entry.Debit.Equal(types.MustMoney("500.00")))
	assert.True(t, entry.Credit.IsZero())
	assert.True(t, entry.RunningBalance.Equal(types.MustMoney("500.00")))
	require.NotNil(t, entry.ReferenceNo)
	assert.Equal(t, "OPEN-CUST001", *entry.ReferenceNo)
}

func TestCreate_NegativeOpeningBalanceCredits(t *testing.T) {
	svc, _, ledgerRepo := newFixture()
	ctx := context.Background()

	c := NewCustomer("CUST042", "Overpaid Ltd")
	c.OpeningBalance = types.MustMoney("-120.00")

	require.NoError(t, svc.Create(ctx, c))

	require.Len(t, ledgerRepo.entries, 1)
	entry := ledgerRepo.entries[0]
	assert.True(t, entry.Debit.IsZero())
	assert.True(t, entry.Credit.Equal(types.MustMoney("120.00")))
	assert.True(t, entry.RunningBalance.Equal(types.MustMoney("-120.00")))
	assert.True(t, c.CurrentBalance.Equal(types.MustMoney("-120.00")))
}

func TestCreate_ZeroOpeningBalanceSkipsLedger(t *testing.T) {
	svc, repo, ledgerRepo := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewCustomer("", "No History GmbH")))

	require.Len(t, repo.created, 1)
	assert.Empty(t, ledgerRepo.entries)
	assert.True(t, repo.created[0].CurrentBalance.IsZero())
}

func TestCreate_DuplicateCodeRejected(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewCustomer("CUST007", "First")))

	err := svc.Create(ctx, NewCustomer("CUST007", "Second"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

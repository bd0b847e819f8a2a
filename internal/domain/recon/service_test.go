package recon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/documents/invoice"
)

// --- Mocks ---

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type balanceKey struct {
	item      id.ID
	warehouse id.ID
}

// mockReconRepo simulates the drift queries over in-memory state: movements
// are a map of true sums, balances are the stored rows.
type mockReconRepo struct {
	movementSums map[balanceKey]types.Quantity
	balances     map[balanceKey]types.Quantity
	itemDrift    int64
}

func newMockReconRepo() *mockReconRepo {
	return &mockReconRepo{
		movementSums: make(map[balanceKey]types.Quantity),
		balances:     make(map[balanceKey]types.Quantity),
	}
}

func (m *mockReconRepo) FindBalanceDrift(ctx context.Context) ([]BalanceDrift, error) {
	var drifts []BalanceDrift
	for key, total := range m.movementSums {
		stored, ok := m.balances[key]
		if ok && stored == total {
			continue
		}
		drifts = append(drifts, BalanceDrift{
			ItemID:      key.item,
			WarehouseID: key.warehouse,
			Stored:      stored,
			Computed:    total,
			Missing:     !ok,
		})
	}
	return drifts, nil
}

func (m *mockReconRepo) SetBalance(ctx context.Context, itemID, whID id.ID, qty types.Quantity) error {
	m.balances[balanceKey{itemID, whID}] = qty
	return nil
}

func (m *mockReconRepo) FindOrphanBalances(ctx context.Context) ([]OrphanBalance, error) {
	var orphans []OrphanBalance
	for key, qty := range m.balances {
		if _, ok := m.movementSums[key]; ok {
			continue
		}
		orphans = append(orphans, OrphanBalance{
			ItemID:      key.item,
			WarehouseID: key.warehouse,
			Quantity:    qty,
		})
	}
	return orphans, nil
}

func (m *mockReconRepo) DeleteBalance(ctx context.Context, itemID, whID id.ID) error {
	delete(m.balances, balanceKey{itemID, whID})
	return nil
}

func (m *mockReconRepo) RecalcAllItemStock(ctx context.Context) (int64, error) {
	corrected := m.itemDrift
	m.itemDrift = 0
	return corrected, nil
}

// mockInvoiceRepo serves invoices and their true allocation sums.
type mockInvoiceRepo struct {
	invoices    map[id.ID]*invoice.Invoice
	allocations map[id.ID]types.Money
	updates     int
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		invoices:    make(map[id.ID]*invoice.Invoice),
		allocations: make(map[id.ID]types.Money),
	}
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error { return nil }
func (m *mockInvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return m.GetForUpdate(ctx, invoiceID)
}
func (m *mockInvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	return nil, apperror.NewNotFound("invoice", number)
}
func (m *mockInvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	if inv, ok := m.invoices[invoiceID]; ok {
		return inv, nil
	}
	return nil, apperror.NewNotFound("invoice", invoiceID.String())
}
func (m *mockInvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return domain.ListResult[*invoice.Invoice]{}, nil
}
func (m *mockInvoiceRepo) UpdatePaymentState(ctx context.Context, invoiceID id.ID, paid, balance types.Money, status invoice.Status) error {
	inv := m.invoices[invoiceID]
	inv.PaidAmount = paid
	inv.BalanceAmount = balance
	inv.Status = status
	m.updates++
	return nil
}
func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, invoiceID id.ID, status invoice.Status) error {
	m.invoices[invoiceID].Status = status
	return nil
}
func (m *mockInvoiceRepo) SumAllocated(ctx context.Context, invoiceID id.ID) (types.Money, error) {
	return m.allocations[invoiceID], nil
}
func (m *mockInvoiceRepo) SumOpenBalanceByCustomer(ctx context.Context, customerID id.ID) (types.Money, error) {
	total := types.ZeroMoney()
	for _, inv := range m.invoices {
		if inv.CustomerID == customerID && inv.Status.IsOpen() {
			total = total.Add(inv.BalanceAmount)
		}
	}
	return total, nil
}
func (m *mockInvoiceRepo) ListIDs(ctx context.Context) ([]id.ID, error) {
	ids := make([]id.ID, 0, len(m.invoices))
	for invoiceID := range m.invoices {
		ids = append(ids, invoiceID)
	}
	return ids, nil
}

// mockCustomerRepo serves customers and records balance rewrites.
type mockCustomerRepo struct {
	customers []*customer.Customer
	updates   int
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *customer.Customer) error { return nil }
func (m *mockCustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	for _, c := range m.customers {
		if c.ID == customerID {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", customerID.String())
}
func (m *mockCustomerRepo) GetByCode(ctx context.Context, code string) (*customer.Customer, error) {
	return nil, apperror.NewNotFound("customer", code)
}
func (m *mockCustomerRepo) Update(ctx context.Context, c *customer.Customer) error { return nil }
func (m *mockCustomerRepo) SetDeletionMark(ctx context.Context, customerID id.ID, marked bool) error {
	return nil
}
func (m *mockCustomerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	return domain.ListResult[*customer.Customer]{Items: m.customers}, nil
}
func (m *mockCustomerRepo) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	return false, nil
}
func (m *mockCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}
func (m *mockCustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return m.GetByID(ctx, customerID)
}
func (m *mockCustomerRepo) UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error {
	c, err := m.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	c.CurrentBalance = balance
	m.updates++
	return nil
}

// --- Tests ---

func newTestInvoice(customerID id.ID, total string) *invoice.Invoice {
	now := time.Now().UTC()
	inv := invoice.NewInvoice(customerID, now, now.AddDate(0, 0, 30))
	inv.AddLine(nil, "goods", types.NewQuantityFromFloat64(1), types.MustMoney(total))
	inv.ComputeTotals()
	return inv
}

func TestRun_CleanDatabase(t *testing.T) {
	repo := newMockReconRepo()
	invoices := newMockInvoiceRepo()
	customers := &mockCustomerRepo{}

	itemID, whID := id.New(), id.New()
	repo.movementSums[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(5)
	repo.balances[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(5)

	svc := NewService(repo, invoices, customers, stubTxManager{})
	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.Clean())
	assert.Zero(t, invoices.updates)
	assert.Zero(t, customers.updates)
}

func TestRun_CorrectsDriftAndOrphans(t *testing.T) {
	repo := newMockReconRepo()
	itemID, whID := id.New(), id.New()
	orphanItem := id.New()

	// Stored balance disagrees with the movement sum
	repo.movementSums[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(8)
	repo.balances[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(5)
	// Balance row without movements
	repo.balances[balanceKey{orphanItem, whID}] = types.NewQuantityFromFloat64(2)
	repo.itemDrift = 1

	svc := NewService(repo, newMockInvoiceRepo(), &mockCustomerRepo{}, stubTxManager{})
	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BalancesCorrected)
	assert.Equal(t, 1, summary.BalancesDeleted)
	assert.Equal(t, 1, summary.ItemsCorrected)

	assert.Equal(t, types.NewQuantityFromFloat64(8), repo.balances[balanceKey{itemID, whID}])
	_, orphanStillThere := repo.balances[balanceKey{orphanItem, whID}]
	assert.False(t, orphanStillThere)
}

func TestRun_CorrectsInvoiceAndCustomer(t *testing.T) {
	cust := customer.NewCustomer("CUST001", "Acme")
	cust.CurrentBalance = types.MustMoney("999.00") // stale cache

	inv := newTestInvoice(cust.ID, "100.00")
	invoices := newMockInvoiceRepo()
	invoices.invoices[inv.ID] = inv
	invoices.allocations[inv.ID] = types.MustMoney("40.00") // not reflected on the header

	customers := &mockCustomerRepo{customers: []*customer.Customer{cust}}

	svc := NewService(newMockReconRepo(), invoices, customers, stubTxManager{})
	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.InvoicesCorrected)
	assert.Equal(t, invoice.StatusPartiallyPaid, inv.Status)
	assert.True(t, inv.PaidAmount.Equal(types.MustMoney("40.00")))
	assert.True(t, inv.BalanceAmount.Equal(types.MustMoney("60.00")))

	assert.Equal(t, 1, summary.CustomersCorrected)
	assert.True(t, cust.CurrentBalance.Equal(types.MustMoney("60.00")))
}

func TestRun_SecondPassIsClean(t *testing.T) {
	cust := customer.NewCustomer("CUST001", "Acme")
	cust.CurrentBalance = types.MustMoney("999.00")

	repo := newMockReconRepo()
	itemID, whID := id.New(), id.New()
	repo.movementSums[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(8)
	repo.balances[balanceKey{itemID, whID}] = types.NewQuantityFromFloat64(5)
	repo.itemDrift = 1

	inv := newTestInvoice(cust.ID, "100.00")
	invoices := newMockInvoiceRepo()
	invoices.invoices[inv.ID] = inv
	invoices.allocations[inv.ID] = types.MustMoney("100.00")

	customers := &mockCustomerRepo{customers: []*customer.Customer{cust}}

	svc := NewService(repo, invoices, customers, stubTxManager{})

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Clean())

	// Everything agrees now, so a rerun must report zero corrections
	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Clean(), "second run reported corrections: %+v", second)
}

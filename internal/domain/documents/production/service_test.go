package production

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	core "stockbook/internal/core/numerator"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/domain/registers/stock"
)

// --- Mocks ---

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubNumerator struct{ n int64 }

func (s *stubNumerator) NextNumber(ctx context.Context, cfg core.Config, period time.Time) (string, error) {
	s.n++
	return cfg.Format(period, s.n), nil
}

type mockItemRepo struct {
	items map[id.ID]*item.Item
}

func (m *mockItemRepo) Create(ctx context.Context, it *item.Item) error { return nil }
func (m *mockItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if it, ok := m.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}
func (m *mockItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	return nil, apperror.NewNotFound("item", code)
}
func (m *mockItemRepo) Update(ctx context.Context, it *item.Item) error { return nil }
func (m *mockItemRepo) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	return nil
}
func (m *mockItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	return domain.ListResult[*item.Item]{}, nil
}
func (m *mockItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := m.items[itemID]
	return ok, nil
}
func (m *mockItemRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}
func (m *mockItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*item.Item, error) {
	return m.GetByID(ctx, itemID)
}
func (m *mockItemRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	return domain.ListResult[*item.Item]{}, nil
}

type mockWarehouseRepo struct {
	ids map[id.ID]bool
}

func (m *mockWarehouseRepo) Create(ctx context.Context, wh *warehouse.Warehouse) error { return nil }
func (m *mockWarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	return nil, apperror.NewNotFound("warehouse", whID.String())
}
func (m *mockWarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	return nil, apperror.NewNotFound("warehouse", code)
}
func (m *mockWarehouseRepo) Update(ctx context.Context, wh *warehouse.Warehouse) error { return nil }
func (m *mockWarehouseRepo) SetDeletionMark(ctx context.Context, whID id.ID, marked bool) error {
	return nil
}
func (m *mockWarehouseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*warehouse.Warehouse], error) {
	return domain.ListResult[*warehouse.Warehouse]{}, nil
}
func (m *mockWarehouseRepo) Exists(ctx context.Context, whID id.ID) (bool, error) {
	return m.ids[whID], nil
}
func (m *mockWarehouseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}
func (m *mockWarehouseRepo) GetForUpdate(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

type mockProductionRepo struct {
	created []*Production
}

func (m *mockProductionRepo) Create(ctx context.Context, p *Production) error {
	m.created = append(m.created, p)
	return nil
}
func (m *mockProductionRepo) GetByID(ctx context.Context, productionID id.ID) (*Production, error) {
	return nil, apperror.NewNotFound("production", productionID.String())
}
func (m *mockProductionRepo) GetByNumber(ctx context.Context, number string) (*Production, error) {
	return nil, apperror.NewNotFound("production", number)
}
func (m *mockProductionRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Production], error) {
	return domain.ListResult[*Production]{}, nil
}
func (m *mockProductionRepo) HardDelete(ctx context.Context, productionID id.ID) error { return nil }

type balanceKey struct {
	item      id.ID
	warehouse id.ID
}

// mockStockRepo keeps balances in memory and records posted movements.
type mockStockRepo struct {
	balances  map[balanceKey]types.Quantity
	movements []*stock.Movement
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{balances: make(map[balanceKey]types.Quantity)}
}

func (m *mockStockRepo) setBalance(itemID, whID id.ID, qty types.Quantity) {
	m.balances[balanceKey{itemID, whID}] = qty
}

func (m *mockStockRepo) CreateMovement(ctx context.Context, mv *stock.Movement) error {
	m.movements = append(m.movements, mv)
	return nil
}
func (m *mockStockRepo) ListMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	return nil, nil
}
func (m *mockStockRepo) GetItemLedger(ctx context.Context, itemID id.ID, filter stock.MovementFilter) ([]stock.LedgerRow, error) {
	return nil, nil
}
func (m *mockStockRepo) GetBalance(ctx context.Context, itemID, whID id.ID) (stock.Balance, error) {
	return m.GetBalanceForUpdate(ctx, itemID, whID)
}
func (m *mockStockRepo) GetBalanceForUpdate(ctx context.Context, itemID, whID id.ID) (stock.Balance, error) {
	qty, ok := m.balances[balanceKey{itemID, whID}]
	if !ok {
		return stock.Balance{}, apperror.NewNotFound("stock balance", itemID.String())
	}
	return stock.Balance{ItemID: itemID, WarehouseID: whID, Quantity: qty}, nil
}
func (m *mockStockRepo) UpsertBalance(ctx context.Context, itemID, whID id.ID, delta types.Quantity) error {
	key := balanceKey{itemID, whID}
	m.balances[key] = m.balances[key].Add(delta)
	return nil
}
func (m *mockStockRepo) GetBalancesByItem(ctx context.Context, itemID id.ID) ([]stock.Balance, error) {
	return nil, nil
}
func (m *mockStockRepo) GetBalancesByWarehouse(ctx context.Context, whID id.ID, excludeZero bool) ([]stock.Balance, error) {
	return nil, nil
}
func (m *mockStockRepo) RecalcItemStock(ctx context.Context, itemID id.ID) error { return nil }
func (m *mockStockRepo) GetSummary(ctx context.Context, filter stock.SummaryFilter) ([]stock.SummaryRow, error) {
	return nil, nil
}

// --- Fixture ---

type fixture struct {
	svc       *Service
	repo      *mockProductionRepo
	stockRepo *mockStockRepo

	cake  id.ID
	flour id.ID
	sugar id.ID
	main  id.ID
	raw   id.ID
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &mockProductionRepo{},
		stockRepo: newMockStockRepo(),
		cake:      id.New(),
		flour:     id.New(),
		sugar:     id.New(),
		main:      id.New(),
		raw:       id.New(),
	}

	items := &mockItemRepo{items: map[id.ID]*item.Item{
		f.cake:  item.NewItem("ITEM001", "Cake", "pcs"),
		f.flour: item.NewItem("ITEM002", "Flour", "kg"),
		f.sugar: item.NewItem("ITEM003", "Sugar", "kg"),
	}}
	warehouses := &mockWarehouseRepo{ids: map[id.ID]bool{f.main: true, f.raw: true}}

	txm := stubTxManager{}
	gen := &stubNumerator{}
	stockSvc := stock.NewService(f.stockRepo, txm, gen)

	f.svc = NewService(f.repo, items, warehouses, stockSvc, txm, gen)
	return f
}

// --- Tests ---

func TestRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.stockRepo.setBalance(f.flour, f.raw, types.NewQuantityFromFloat64(10))
	f.stockRepo.setBalance(f.sugar, f.raw, types.NewQuantityFromFloat64(5))

	p := NewProduction(f.cake, f.main, types.NewQuantityFromFloat64(2), time.Now().UTC())
	p.SourceWarehouseID = &f.raw
	p.AddInput(f.flour, types.NewQuantityFromFloat64(4))
	p.AddInput(f.sugar, types.NewQuantityFromFloat64(1))

	require.NoError(t, f.svc.Record(ctx, p))

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, "PROD-"+time.Now().Format("2006")+"-0001", p.Number)

	// Two issues at the source, one receipt at the destination
	require.Len(t, f.stockRepo.movements, 3)
	assert.Equal(t, types.NewQuantityFromFloat64(-4), f.stockRepo.movements[0].Quantity)
	assert.Equal(t, f.raw, f.stockRepo.movements[0].WarehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(-1), f.stockRepo.movements[1].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(2), f.stockRepo.movements[2].Quantity)
	assert.Equal(t, f.main, f.stockRepo.movements[2].WarehouseID)

	// Balances follow the movements
	assert.Equal(t, types.NewQuantityFromFloat64(6), f.stockRepo.balances[balanceKey{f.flour, f.raw}])
	assert.Equal(t, types.NewQuantityFromFloat64(4), f.stockRepo.balances[balanceKey{f.sugar, f.raw}])
	assert.Equal(t, types.NewQuantityFromFloat64(2), f.stockRepo.balances[balanceKey{f.cake, f.main}])
}

func TestRecord_InsufficientInputRejectsWholeRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.stockRepo.setBalance(f.flour, f.raw, types.NewQuantityFromFloat64(10))
	f.stockRepo.setBalance(f.sugar, f.raw, types.NewQuantityFromFloat64(0.5))

	p := NewProduction(f.cake, f.main, types.NewQuantityFromFloat64(2), time.Now().UTC())
	p.SourceWarehouseID = &f.raw
	p.AddInput(f.flour, types.NewQuantityFromFloat64(4))
	p.AddInput(f.sugar, types.NewQuantityFromFloat64(1))

	err := f.svc.Record(ctx, p)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing was written: all inputs are checked before the first write
	assert.Empty(t, f.repo.created)
	assert.Empty(t, f.stockRepo.movements)
	assert.Equal(t, types.NewQuantityFromFloat64(10), f.stockRepo.balances[balanceKey{f.flour, f.raw}])
}

func TestRecord_MissingBalanceMeansZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// No balance rows at all
	p := NewProduction(f.cake, f.main, types.NewQuantityFromFloat64(1), time.Now().UTC())
	p.AddInput(f.flour, types.NewQuantityFromFloat64(1))

	err := f.svc.Record(ctx, p)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestRecord_SourceDefaultsToDestination(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.stockRepo.setBalance(f.flour, f.main, types.NewQuantityFromFloat64(3))

	p := NewProduction(f.cake, f.main, types.NewQuantityFromFloat64(1), time.Now().UTC())
	p.AddInput(f.flour, types.NewQuantityFromFloat64(2))

	require.NoError(t, f.svc.Record(ctx, p))

	require.Len(t, f.stockRepo.movements, 2)
	assert.Equal(t, f.main, f.stockRepo.movements[0].WarehouseID)
	assert.Equal(t, types.NewQuantityFromFloat64(1), f.stockRepo.balances[balanceKey{f.flour, f.main}])
}

func TestRecord_UnknownOutputItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	p := NewProduction(id.New(), f.main, types.NewQuantityFromFloat64(1), time.Now().UTC())
	p.AddInput(f.flour, types.NewQuantityFromFloat64(1))

	err := f.svc.Record(ctx, p)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

package purchase

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
	"freshstock/internal/domain/audit"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/pkg/numerator"
)

type memOrderRepo struct {
	orders map[id.ID]*PurchaseOrder
	lines  map[id.ID]*Line
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[id.ID]*PurchaseOrder),
		lines:  make(map[id.ID]*Line),
	}
}

func (r *memOrderRepo) Create(_ context.Context, o *PurchaseOrder) error {
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *PurchaseOrder) error {
	if _, ok := r.orders[o.ID]; !ok {
		return apperror.NewNotFound("purchase order", o.ID.String())
	}
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, orderID id.ID) (*PurchaseOrder, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", orderID.String())
	}
	clone := *o
	return &clone, nil
}

func (r *memOrderRepo) FindOpenByBuyer(_ context.Context, buyerID id.ID) (*PurchaseOrder, error) {
	for _, o := range r.orders {
		if o.BuyerID == buyerID && o.Status == StatusOpen {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) ListLines(_ context.Context, orderID id.ID) ([]*Line, error) {
	var out []*Line
	for _, l := range r.lines {
		if l.OrderID == orderID {
			clone := *l
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id.Less(out[i].ProductID, out[j].ProductID) })
	return out, nil
}

func (r *memOrderRepo) FindLineByBatch(_ context.Context, orderID, batchID id.ID) (*Line, error) {
	for _, l := range r.lines {
		if l.OrderID == orderID && l.BatchID == batchID {
			clone := *l
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetLineByProduct(_ context.Context, orderID, productID id.ID) (*Line, error) {
	for _, l := range r.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			clone := *l
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("product in the purchase order", productID.String())
}

func (r *memOrderRepo) SaveLine(_ context.Context, l *Line) error {
	clone := *l
	r.lines[l.ID] = &clone
	return nil
}

func (r *memOrderRepo) DeleteLine(_ context.Context, lineID id.ID) error {
	delete(r.lines, lineID)
	return nil
}

type memBatchRepo struct {
	batches map[id.ID]*batch.Batch
}

func (r *memBatchRepo) put(b *batch.Batch) {
	clone := *b
	r.batches[b.ID] = &clone
}

func (r *memBatchRepo) Create(_ context.Context, b *batch.Batch) error { r.put(b); return nil }

func (r *memBatchRepo) Update(_ context.Context, b *batch.Batch) error {
	if _, ok := r.batches[b.ID]; !ok {
		return apperror.NewNotFound("batch", b.ID.String())
	}
	r.put(b)
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, batchID id.ID) (*batch.Batch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	clone := *b
	return &clone, nil
}

func (r *memBatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*batch.Batch, error) {
	return r.GetByID(ctx, batchID)
}

func (r *memBatchRepo) ListByProductForUpdate(_ context.Context, productID id.ID) ([]*batch.Batch, error) {
	var out []*batch.Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id.Less(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memBatchRepo) ListBySection(context.Context, id.ID) ([]*batch.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) CountBySection(context.Context, id.ID) (int, error) { return 0, nil }

func (r *memBatchRepo) ListAvailable(context.Context, time.Time, *product.Category) ([]*batch.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) ListExpiringForManager(context.Context, product.Category, time.Time, id.ID) ([]*batch.Batch, error) {
	return nil, nil
}

type memBuyerRepo struct{ buyers map[id.ID]*buyer.Buyer }

func (r *memBuyerRepo) Create(_ context.Context, b *buyer.Buyer) error {
	r.buyers[b.ID] = b
	return nil
}

func (r *memBuyerRepo) GetByID(_ context.Context, buyerID id.ID) (*buyer.Buyer, error) {
	b, ok := r.buyers[buyerID]
	if !ok {
		return nil, apperror.NewNotFound("buyer", buyerID.String())
	}
	return b, nil
}

func (r *memBuyerRepo) List(context.Context) ([]*buyer.Buyer, error) { return nil, nil }

type memProductRepo struct{ products map[id.ID]*product.Product }

func (r *memProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (r *memProductRepo) List(context.Context, *product.Category) ([]*product.Product, error) {
	return nil, nil
}

// snapshotTx copies the mutable stores before running the function and
// restores them when it fails, mirroring a database rollback.
type snapshotTx struct {
	orders  *memOrderRepo
	batches *memBatchRepo
}

func (t *snapshotTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	savedOrders := make(map[id.ID]*PurchaseOrder, len(t.orders.orders))
	for k, v := range t.orders.orders {
		clone := *v
		savedOrders[k] = &clone
	}
	savedLines := make(map[id.ID]*Line, len(t.orders.lines))
	for k, v := range t.orders.lines {
		clone := *v
		savedLines[k] = &clone
	}
	savedBatches := make(map[id.ID]*batch.Batch, len(t.batches.batches))
	for k, v := range t.batches.batches {
		clone := *v
		savedBatches[k] = &clone
	}

	if err := fn(ctx); err != nil {
		t.orders.orders = savedOrders
		t.orders.lines = savedLines
		t.batches.batches = savedBatches
		return err
	}
	return nil
}

type seqRow struct{ val int64 }

func (r seqRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

type seqQuerier struct{ current int64 }

func (q *seqQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	var incr int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			incr = v
		}
	}
	q.current += incr
	return seqRow{val: q.current}
}

var (
	batchID1 = id.MustParse("01900000-0000-7000-8000-000000000001")
	batchID2 = id.MustParse("01900000-0000-7000-8000-000000000002")
)

type fixture struct {
	svc      *Service
	orders   *memOrderRepo
	batches  *memBatchRepo
	buyers   *memBuyerRepo
	products *memProductRepo

	buyerID id.ID
	asOf    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		orders:   newMemOrderRepo(),
		batches:  &memBatchRepo{batches: make(map[id.ID]*batch.Batch)},
		buyers:   &memBuyerRepo{buyers: make(map[id.ID]*buyer.Buyer)},
		products: &memProductRepo{products: make(map[id.ID]*product.Product)},
		asOf:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	b := buyer.NewBuyer("BY-2026-00001", "Ana Souza", "asouza")
	f.buyers.buyers[b.ID] = b
	f.buyerID = b.ID

	f.svc = NewService(
		f.orders, f.buyers, f.products,
		batch.NewAllocator(f.batches),
		&snapshotTx{orders: f.orders, batches: f.batches},
		numerator.New(&seqQuerier{}),
		audit.Nop{},
		nil,
	)
	return f
}

func (f *fixture) addProduct(t *testing.T, name string) id.ID {
	t.Helper()
	p := product.NewProduct("PRD-2026-0000"+name, name, "Dale", product.CategoryChilled)
	f.products.products[p.ID] = p
	return p.ID
}

func (f *fixture) addBatch(batchID, productID id.ID, qty int, price string) {
	b := batch.NewBatch(productID, qty, f.asOf.AddDate(0, 0, 60), types.MustMoney(price))
	b.ID = batchID
	b.Number = "BT-2026-00001"
	f.batches.put(b)
}

func (f *fixture) reservedUnits(productID id.ID) int {
	total := 0
	for _, b := range f.batches.batches {
		if b.ProductID == productID {
			total += b.SoldQuantity()
		}
	}
	return total
}

func TestCreateAllocatesAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	p2 := f.addProduct(t, "2")
	f.addBatch(batchID1, p1, 10, "2.50")
	f.addBatch(batchID2, p2, 10, "3.00")

	total, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{
		{ProductID: p1, Quantity: 4},
		{ProductID: p2, Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustMoney("16.00")), "got %s", total)

	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "PO-2026-00001", order.Number)

	lines, err := f.orders.ListLines(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	assert.Equal(t, 4, f.reservedUnits(p1))
	assert.Equal(t, 2, f.reservedUnits(p2))
}

func TestCreateMergesIntoOpenOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 20, "2.00")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 5}})
	require.NoError(t, err)

	total, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustMoney("16.00")), "got %s", total)

	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)
	lines, err := f.orders.ListLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 8, lines[0].Quantity)

	// Net effect on stock is the summed quantity, not 5 plus 8.
	assert.Equal(t, 8, f.reservedUnits(p1))
	assert.Len(t, f.orders.orders, 1)
}

func TestCreateMergeMovesToLargerBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 6, "2.00")
	f.addBatch(batchID2, p1, 20, "2.00")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 5}})
	require.NoError(t, err)

	// 5 + 3 no longer fits the first batch; the combined request moves
	// to the second and the stale line disappears.
	_, err = f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 3}})
	require.NoError(t, err)

	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)
	lines, err := f.orders.ListLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, batchID2, lines[0].BatchID)
	assert.Equal(t, 8, lines[0].Quantity)

	first, err := f.batches.GetByID(ctx, batchID1)
	require.NoError(t, err)
	assert.Equal(t, 6, first.CurrentQuantity)
	assert.Equal(t, 8, f.reservedUnits(p1))
}

func TestCreateOutOfStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	p2 := f.addProduct(t, "2")
	f.addBatch(batchID1, p1, 10, "2.50")
	f.addBatch(batchID2, p2, 1, "3.00")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{
		{ProductID: p1, Quantity: 4},
		{ProductID: p2, Quantity: 5},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsOutOfStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{p2.String()}, appErr.Details["productIds"])

	// Nothing persists: no order, no lines, stock untouched.
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Empty(t, f.orders.lines)
	assert.Equal(t, 0, f.reservedUnits(p1))
	assert.Equal(t, 0, f.reservedUnits(p2))
}

func TestCreateCollectsEveryFailingProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	p2 := f.addProduct(t, "2")
	f.addBatch(batchID1, p1, 1, "2.50")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{
		{ProductID: p1, Quantity: 5},
		{ProductID: p2, Quantity: 1},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	got, ok := appErr.Details["productIds"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{p1.String(), p2.String()}, got)
}

func TestCreateUnknownProductFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.buyerID, f.asOf,
		[]LineItem{{ProductID: id.New(), Quantity: 1}})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateUnknownBuyerFails(t *testing.T) {
	f := newFixture(t)
	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")

	_, err := f.svc.Create(context.Background(), id.New(), f.asOf,
		[]LineItem{{ProductID: p1, Quantity: 1}})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateZeroQuantityIsTrivialMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")

	total, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 0}})
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Equal(t, 0, f.reservedUnits(p1))
}

func TestCloseSettlesOnFrozenPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 4}})
	require.NoError(t, err)
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)

	// A later price change on the batch must not affect the order.
	b := f.batches.batches[batchID1]
	b.UnitPrice = types.MustMoney("9.99")

	total, err := f.svc.Close(ctx, order.ID, f.buyerID)
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustMoney("10.00")), "got %s", total)

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, stored.Status)

	_, err = f.svc.Close(ctx, order.ID, f.buyerID)
	require.Error(t, err)
	assert.True(t, apperror.IsOrderClosed(err))
}

func TestCloseChecksOwnershipAndExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")
	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 4}})
	require.NoError(t, err)
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, id.New(), f.buyerID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	intruder := buyer.NewBuyer("BY-2026-00002", "Leo Prado", "lprado")
	f.buyers.buyers[intruder.ID] = intruder
	_, err = f.svc.Close(ctx, order.ID, intruder.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestDropProductRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	p2 := f.addProduct(t, "2")
	f.addBatch(batchID1, p1, 10, "2.50")
	f.addBatch(batchID2, p2, 10, "3.00")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{
		{ProductID: p1, Quantity: 4},
		{ProductID: p2, Quantity: 2},
	})
	require.NoError(t, err)
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DropProduct(ctx, order.ID, p1, f.buyerID))

	assert.Equal(t, 0, f.reservedUnits(p1))
	assert.Equal(t, 2, f.reservedUnits(p2))
	lines, err := f.orders.ListLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p2, lines[0].ProductID)

	// The product is known but no longer on the order.
	err = f.svc.DropProduct(ctx, order.ID, p1, f.buyerID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDropProductOnClosedOrderFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 4}})
	require.NoError(t, err)
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, order.ID, f.buyerID)
	require.NoError(t, err)

	err = f.svc.DropProduct(ctx, order.ID, p1, f.buyerID)
	require.Error(t, err)
	assert.True(t, apperror.IsOrderClosed(err))

	// The closed order keeps its line and its reservation.
	lines, err := f.orders.ListLines(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 4, f.reservedUnits(p1))
}

func TestGetReturnsLinesAndTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.addProduct(t, "1")
	f.addBatch(batchID1, p1, 10, "2.50")

	_, err := f.svc.Create(ctx, f.buyerID, f.asOf, []LineItem{{ProductID: p1, Quantity: 4}})
	require.NoError(t, err)
	order, err := f.orders.FindOpenByBuyer(ctx, f.buyerID)
	require.NoError(t, err)

	view, err := f.svc.Get(ctx, order.ID, f.buyerID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	assert.True(t, view.Total.Equal(types.MustMoney("10.00")))
}

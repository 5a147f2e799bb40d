package batch

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
	"freshstock/internal/domain/catalogs/product"
)

// memBatchRepo is an in-memory Repository for tests. sectionOf and
// categoryOf emulate the joins the SQL implementation performs.
type memBatchRepo struct {
	batches    map[id.ID]*Batch
	sectionOf  map[id.ID]id.ID            // batch id -> section id
	managerOf  map[id.ID]id.ID            // section id -> manager id
	categoryOf map[id.ID]product.Category // product id -> category
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{
		batches:    make(map[id.ID]*Batch),
		sectionOf:  make(map[id.ID]id.ID),
		managerOf:  make(map[id.ID]id.ID),
		categoryOf: make(map[id.ID]product.Category),
	}
}

func (r *memBatchRepo) put(b *Batch) *Batch {
	clone := *b
	r.batches[b.ID] = &clone
	return b
}

func (r *memBatchRepo) Create(_ context.Context, b *Batch) error {
	r.put(b)
	return nil
}

func (r *memBatchRepo) Update(_ context.Context, b *Batch) error {
	if _, ok := r.batches[b.ID]; !ok {
		return apperror.NewNotFound("batch", b.ID.String())
	}
	r.put(b)
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, batchID id.ID) (*Batch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	clone := *b
	return &clone, nil
}

func (r *memBatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*Batch, error) {
	return r.GetByID(ctx, batchID)
}

func (r *memBatchRepo) ListByProductForUpdate(_ context.Context, productID id.ID) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id.Less(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *memBatchRepo) ListBySection(_ context.Context, sectionID id.ID) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if r.sectionOf[b.ID] == sectionID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *memBatchRepo) CountBySection(_ context.Context, sectionID id.ID) (int, error) {
	n := 0
	for batchID, secID := range r.sectionOf {
		if secID == sectionID {
			if _, ok := r.batches[batchID]; ok {
				n++
			}
		}
	}
	return n, nil
}

func (r *memBatchRepo) ListAvailable(_ context.Context, minDueDate time.Time, category *product.Category) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.CurrentQuantity <= 0 || !b.DueDate.After(minDueDate) {
			continue
		}
		if category != nil && r.categoryOf[b.ProductID] != *category {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return id.Less(out[i].ProductID, out[j].ProductID)
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

func (r *memBatchRepo) ListExpiringForManager(_ context.Context, category product.Category, maxDueDate time.Time, managerID id.ID) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.DueDate.After(maxDueDate) {
			continue
		}
		if r.categoryOf[b.ProductID] != category {
			continue
		}
		if r.managerOf[r.sectionOf[b.ID]] != managerID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// Fixed ids in ascending byte order stand in for the time-ordered ids
// the generator produces.
var (
	batchID1 = id.MustParse("01900000-0000-7000-8000-000000000001")
	batchID2 = id.MustParse("01900000-0000-7000-8000-000000000002")
	batchID3 = id.MustParse("01900000-0000-7000-8000-000000000003")
)

func testBatch(batchID, productID id.ID, current, initial int, dueDate time.Time) *Batch {
	b := NewBatch(productID, initial, dueDate, types.MustMoney("10.50"))
	b.ID = batchID
	b.CurrentQuantity = current
	b.Number = "BT-2026-00001"
	return b
}

func TestAllocatePicksOldestEligibleBatch(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	farDue := asOf.AddDate(0, 0, 60)

	repo.put(testBatch(batchID1, productID, 10, 10, farDue))
	repo.put(testBatch(batchID2, productID, 10, 10, farDue))

	alloc := NewAllocator(repo)
	got, err := alloc.Allocate(ctx, productID, 4, asOf)
	require.NoError(t, err)

	assert.Equal(t, batchID1, got.ID)
	assert.Equal(t, 6, got.CurrentQuantity)

	stored, err := repo.GetByID(ctx, batchID1)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.CurrentQuantity)

	untouched, err := repo.GetByID(ctx, batchID2)
	require.NoError(t, err)
	assert.Equal(t, 10, untouched.CurrentQuantity)
}

func TestAllocateSkipsBatchesWithinSafetyWindow(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Due exactly SafetyWindowDays out: the boundary is exclusive.
	repo.put(testBatch(batchID1, productID, 10, 10, asOf.AddDate(0, 0, SafetyWindowDays)))
	repo.put(testBatch(batchID2, productID, 10, 10, asOf.AddDate(0, 0, SafetyWindowDays+1)))

	alloc := NewAllocator(repo)
	got, err := alloc.Allocate(ctx, productID, 5, asOf)
	require.NoError(t, err)
	assert.Equal(t, batchID2, got.ID)
}

func TestAllocateSkipsBatchesWithInsufficientStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	farDue := asOf.AddDate(0, 0, 60)

	repo.put(testBatch(batchID1, productID, 3, 10, farDue))
	repo.put(testBatch(batchID2, productID, 8, 10, farDue))

	alloc := NewAllocator(repo)
	got, err := alloc.Allocate(ctx, productID, 5, asOf)
	require.NoError(t, err)

	assert.Equal(t, batchID2, got.ID)
	assert.Equal(t, 3, got.CurrentQuantity)
}

func TestAllocateOutOfStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Expiring soon and short on stock respectively.
	repo.put(testBatch(batchID1, productID, 10, 10, asOf.AddDate(0, 0, 5)))
	repo.put(testBatch(batchID2, productID, 2, 10, asOf.AddDate(0, 0, 60)))

	alloc := NewAllocator(repo)
	_, err := alloc.Allocate(ctx, productID, 5, asOf)
	require.Error(t, err)
	assert.True(t, apperror.IsOutOfStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{productID.String()}, appErr.Details["productIds"])
}

func TestAllocateZeroQuantity(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.put(testBatch(batchID1, productID, 7, 10, asOf.AddDate(0, 0, 60)))

	alloc := NewAllocator(repo)
	got, err := alloc.Allocate(ctx, productID, 0, asOf)
	require.NoError(t, err)
	assert.Equal(t, batchID1, got.ID)
	assert.Equal(t, 7, got.CurrentQuantity)
}

func TestAllocateNegativeQuantity(t *testing.T) {
	alloc := NewAllocator(newMemBatchRepo())
	_, err := alloc.Allocate(context.Background(), id.New(), -1, time.Now())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReleaseRestoresStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.put(testBatch(batchID1, productID, 4, 10, asOf.AddDate(0, 0, 60)))

	alloc := NewAllocator(repo)
	require.NoError(t, alloc.Release(ctx, batchID1, 6))

	stored, err := repo.GetByID(ctx, batchID1)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.CurrentQuantity)
}

func TestReleaseBeyondInitialQuantityFails(t *testing.T) {
	ctx := context.Background()
	repo := newMemBatchRepo()
	productID := id.New()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.put(testBatch(batchID1, productID, 8, 10, asOf.AddDate(0, 0, 60)))

	alloc := NewAllocator(repo)
	err := alloc.Release(ctx, batchID1, 3)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBatchQuantity, appErr.Code)

	// The stored quantity is untouched after the failed restore.
	stored, err := repo.GetByID(ctx, batchID1)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.CurrentQuantity)
}

func TestBatchReserveNeverGoesNegative(t *testing.T) {
	b := testBatch(batchID1, id.New(), 2, 10, time.Now().AddDate(0, 0, 60))

	err := b.Reserve(3)
	require.Error(t, err)
	assert.Equal(t, 2, b.CurrentQuantity)

	require.NoError(t, b.Reserve(2))
	assert.Equal(t, 0, b.CurrentQuantity)
	assert.Equal(t, 8, b.SoldQuantity())
}

package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
)

type memSectionRepo struct {
	sections map[id.ID]*section.Section
}

func (r *memSectionRepo) Create(_ context.Context, s *section.Section) error {
	r.sections[s.ID] = s
	return nil
}

func (r *memSectionRepo) GetByID(_ context.Context, sectionID id.ID) (*section.Section, error) {
	s, ok := r.sections[sectionID]
	if !ok {
		return nil, apperror.NewNotFound("section", sectionID.String())
	}
	return s, nil
}

func (r *memSectionRepo) ListByWarehouse(_ context.Context, warehouseID id.ID) ([]*section.Section, error) {
	var out []*section.Section
	for _, s := range r.sections {
		if s.WarehouseID == warehouseID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memManagerRepo struct {
	managers map[id.ID]*manager.Manager
}

func (r *memManagerRepo) Create(_ context.Context, m *manager.Manager) error {
	r.managers[m.ID] = m
	return nil
}

func (r *memManagerRepo) GetByID(_ context.Context, managerID id.ID) (*manager.Manager, error) {
	m, ok := r.managers[managerID]
	if !ok {
		return nil, apperror.NewNotFound("manager", managerID.String())
	}
	return m, nil
}

func (r *memManagerRepo) List(_ context.Context) ([]*manager.Manager, error) {
	var out []*manager.Manager
	for _, m := range r.managers {
		out = append(out, m)
	}
	return out, nil
}

type memReportCache struct {
	fresh       []*Batch
	ok          bool
	sets        int
	invalidated int
}

func (c *memReportCache) GetFresh(context.Context) ([]*Batch, bool) { return c.fresh, c.ok }

func (c *memReportCache) SetFresh(_ context.Context, batches []*Batch) {
	c.fresh, c.ok = batches, true
	c.sets++
}

func (c *memReportCache) Invalidate(context.Context) {
	c.fresh, c.ok = nil, false
	c.invalidated++
}

type reportFixture struct {
	repo     *memBatchRepo
	sections *memSectionRepo
	managers *memManagerRepo
	cache    *memReportCache
	svc      *Service

	managerID id.ID
	sectionID id.ID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	f := &reportFixture{
		repo:     newMemBatchRepo(),
		sections: &memSectionRepo{sections: make(map[id.ID]*section.Section)},
		managers: &memManagerRepo{managers: make(map[id.ID]*manager.Manager)},
		cache:    &memReportCache{},
	}
	f.svc = NewService(f.repo, f.sections, f.managers, f.cache)

	m := manager.NewManager("MG-2026-00001", "Lena Ortiz", "lortiz", "lortiz@freshstock.dev")
	f.managers.managers[m.ID] = m
	f.managerID = m.ID

	sec := section.NewSection("SC-2026-00001", "Cold room A", id.New(), m.ID, product.CategoryChilled, 50)
	f.sections.sections[sec.ID] = sec
	f.sectionID = sec.ID
	return f
}

func (f *reportFixture) addBatch(b *Batch, cat product.Category) *Batch {
	f.repo.put(b)
	f.repo.sectionOf[b.ID] = f.sectionID
	f.repo.managerOf[f.sectionID] = f.managerID
	f.repo.categoryOf[b.ProductID] = cat
	return b
}

func TestListFreshFiltersNearExpiry(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	now := time.Now()

	productID := id.New()
	kept := testBatch(batchID1, productID, 5, 10, now.AddDate(0, 0, NearExpiryDays+5))
	nearExpiry := testBatch(batchID2, productID, 5, 10, now.AddDate(0, 0, NearExpiryDays-1))
	exhausted := testBatch(batchID3, productID, 0, 10, now.AddDate(0, 0, 90))

	f.addBatch(kept, product.CategoryChilled)
	f.addBatch(nearExpiry, product.CategoryChilled)
	f.addBatch(exhausted, product.CategoryChilled)

	got, err := f.svc.ListFresh(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)

	// The result is now cached; a second call must not touch the repo.
	assert.Equal(t, 1, f.cache.sets)
	f.repo.batches = nil
	again, err := f.svc.ListFresh(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

func TestListFreshEmptyIsNotFound(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.ListFresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, f.cache.sets)
}

func TestListFreshByCategory(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	now := time.Now()

	chilled := testBatch(batchID1, id.New(), 5, 10, now.AddDate(0, 0, 40))
	frozen := testBatch(batchID2, id.New(), 5, 10, now.AddDate(0, 0, 40))
	f.addBatch(chilled, product.CategoryChilled)
	f.addBatch(frozen, product.CategoryFrozen)

	got, err := f.svc.ListFreshByCategory(ctx, "RF")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, chilled.ID, got[0].ID)

	_, err = f.svc.ListFreshByCategory(ctx, "XX")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestListBySectionRequiresSupervisingManager(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	b := testBatch(batchID1, id.New(), 5, 10, time.Now().AddDate(0, 0, 40))
	f.addBatch(b, product.CategoryChilled)

	got, err := f.svc.ListBySection(ctx, f.sectionID, f.managerID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	other := manager.NewManager("MG-2026-00002", "Rui Matos", "rmatos", "rmatos@freshstock.dev")
	f.managers.managers[other.ID] = other
	_, err = f.svc.ListBySection(ctx, f.sectionID, other.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	_, err = f.svc.ListBySection(ctx, id.New(), f.managerID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListExpiringWithinDays(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	now := time.Now()

	soon := testBatch(batchID1, id.New(), 5, 10, now.AddDate(0, 0, 3))
	later := testBatch(batchID2, id.New(), 5, 10, now.AddDate(0, 0, 30))
	f.addBatch(soon, product.CategoryChilled)
	f.addBatch(later, product.CategoryChilled)

	got, err := f.svc.ListExpiring(ctx, "RF", 7, f.managerID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, soon.ID, got[0].ID)

	_, err = f.svc.ListExpiring(ctx, "RF", 0, f.managerID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

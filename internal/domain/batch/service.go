package batch

import (
	"context"
	"time"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/pkg/logger"
)

// NearExpiryDays is the freshness horizon for buyer-facing listings: a
// batch appears only while its due date lies strictly more than this
// many days ahead. It is deliberately narrower than SafetyWindowDays,
// so a batch can drop out of the listings while still being sellable
// for a short while.
const NearExpiryDays = 20

// ReportCache caches the fresh-products listing. Implementations may be
// best-effort; a miss or a cache failure falls through to the database.
type ReportCache interface {
	GetFresh(ctx context.Context) ([]*Batch, bool)
	SetFresh(ctx context.Context, batches []*Batch)
	Invalidate(ctx context.Context)
}

// Service produces the stock reports.
type Service struct {
	batches  Repository
	sections section.Repository
	managers manager.Repository
	cache    ReportCache
}

// NewService creates a report service. cache may be nil.
func NewService(batches Repository, sections section.Repository, managers manager.Repository, cache ReportCache) *Service {
	return &Service{
		batches:  batches,
		sections: sections,
		managers: managers,
		cache:    cache,
	}
}

// ListFresh returns all batches with remaining stock due strictly more
// than NearExpiryDays from now. Returns NOT_FOUND when the listing is
// empty.
func (s *Service) ListFresh(ctx context.Context) ([]*Batch, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetFresh(ctx); ok {
			logger.Debug(ctx, "fresh products report served from cache", "count", len(cached))
			return cached, nil
		}
	}

	batches, err := s.batches.ListAvailable(ctx, freshnessCutoff(time.Now()), nil)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, apperror.NewNotFound("products", "in stock")
	}

	if s.cache != nil {
		s.cache.SetFresh(ctx, batches)
	}
	return batches, nil
}

// ListFreshByCategory is ListFresh restricted to one product category,
// given as a wire code (FS, RF or FF).
func (s *Service) ListFreshByCategory(ctx context.Context, categoryCode string) ([]*Batch, error) {
	category, err := product.ParseCategoryCode(categoryCode)
	if err != nil {
		return nil, err
	}

	batches, err := s.batches.ListAvailable(ctx, freshnessCutoff(time.Now()), &category)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, apperror.NewNotFound("products", string(category))
	}
	return batches, nil
}

// ListBySection returns the batches of a section ordered by due date.
// The caller must be the manager supervising the section.
func (s *Service) ListBySection(ctx context.Context, sectionID, managerID id.ID) ([]*Batch, error) {
	if _, err := s.managers.GetByID(ctx, managerID); err != nil {
		return nil, err
	}

	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if !sec.ManagedBy(managerID) {
		return nil, apperror.NewUnauthorized(managerID.String(), "manager does not supervise this section")
	}

	return s.batches.ListBySection(ctx, sectionID)
}

// ListExpiring returns the manager's batches of one category due within
// the next days days, soonest first. days must be positive.
func (s *Service) ListExpiring(ctx context.Context, categoryCode string, days int, managerID id.ID) ([]*Batch, error) {
	if days <= 0 {
		return nil, apperror.NewValidation("days must be positive").
			WithDetail("days", days)
	}

	category, err := product.ParseCategoryCode(categoryCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.managers.GetByID(ctx, managerID); err != nil {
		return nil, err
	}

	maxDueDate := time.Now().AddDate(0, 0, days)
	return s.batches.ListExpiringForManager(ctx, category, maxDueDate, managerID)
}

func freshnessCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, NearExpiryDays)
}

package section

import (
	"context"
	"fmt"
	"time"

	"freshstock/internal/core/id"
	"freshstock/pkg/numerator"
)

// Service provides business logic for the Section catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Section service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new section.
func (s *Service) Create(ctx context.Context, sec *Section) error {
	if err := sec.Validate(ctx); err != nil {
		return err
	}

	if sec.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SC"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sec.Code = code
	}

	return s.repo.Create(ctx, sec)
}

// GetByID retrieves a section.
func (s *Service) GetByID(ctx context.Context, sectionID id.ID) (*Section, error) {
	return s.repo.GetByID(ctx, sectionID)
}

// ListByWarehouse retrieves the sections of a warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Section, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

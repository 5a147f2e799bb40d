package manager

import (
	"context"
	"fmt"
	"time"

	"freshstock/internal/core/id"
	"freshstock/pkg/numerator"
)

// Service provides business logic for the Manager catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Manager service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new manager.
func (s *Service) Create(ctx context.Context, m *Manager) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	if m.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MG"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
	}

	return s.repo.Create(ctx, m)
}

// GetByID retrieves a manager.
func (s *Service) GetByID(ctx context.Context, managerID id.ID) (*Manager, error) {
	return s.repo.GetByID(ctx, managerID)
}

// List retrieves all managers.
func (s *Service) List(ctx context.Context) ([]*Manager, error) {
	return s.repo.List(ctx)
}

package product

import (
	"context"
	"fmt"
	"time"

	"freshstock/internal/core/id"
	"freshstock/pkg/logger"
	"freshstock/pkg/numerator"
)

// Service provides business logic for the Product catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		numerator: num,
	}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRD"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products, optionally filtered by category.
func (s *Service) List(ctx context.Context, category *Category) ([]*Product, error) {
	return s.repo.List(ctx, category)
}

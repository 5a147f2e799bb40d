package buyer

import (
	"context"
	"fmt"
	"time"

	"freshstock/internal/core/id"
	"freshstock/pkg/numerator"
)

// Service provides business logic for the Buyer catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Buyer service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new buyer.
func (s *Service) Create(ctx context.Context, b *Buyer) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if b.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("BY"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}

	return s.repo.Create(ctx, b)
}

// GetByID retrieves a buyer.
func (s *Service) GetByID(ctx context.Context, buyerID id.ID) (*Buyer, error) {
	return s.repo.GetByID(ctx, buyerID)
}

// List retrieves all buyers.
func (s *Service) List(ctx context.Context) ([]*Buyer, error) {
	return s.repo.List(ctx)
}

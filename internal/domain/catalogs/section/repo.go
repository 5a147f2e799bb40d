package section

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the interface for Section persistence.
type Repository interface {
	Create(ctx context.Context, s *Section) error

	// GetByID returns the section or a NotFound error.
	GetByID(ctx context.Context, sectionID id.ID) (*Section, error)

	// ListByWarehouse returns the sections of one warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Section, error)
}

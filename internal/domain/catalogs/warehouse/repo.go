package warehouse

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error

	// GetByID returns the warehouse or a NotFound error.
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)

	List(ctx context.Context) ([]*Warehouse, error)
}

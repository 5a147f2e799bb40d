package manager

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the interface for Manager persistence.
type Repository interface {
	Create(ctx context.Context, m *Manager) error

	// GetByID returns the manager or a NotFound error.
	GetByID(ctx context.Context, managerID id.ID) (*Manager, error)

	List(ctx context.Context) ([]*Manager, error)
}

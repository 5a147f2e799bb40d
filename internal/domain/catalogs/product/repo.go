package product

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error

	// GetByID returns the product or a NotFound error.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// List returns all products, optionally filtered by category.
	List(ctx context.Context, category *Category) ([]*Product, error)
}

package buyer

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the interface for Buyer persistence.
type Repository interface {
	Create(ctx context.Context, b *Buyer) error

	// GetByID returns the buyer or a NotFound error.
	GetByID(ctx context.Context, buyerID id.ID) (*Buyer, error)

	List(ctx context.Context) ([]*Buyer, error)
}

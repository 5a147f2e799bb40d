package inbound

import (
	"context"

	"freshstock/internal/core/id"
	"freshstock/internal/domain/batch"
)

// Repository defines the storage contract for inbound order documents.
// Batch rows are managed through batch.Repository; this repository only
// owns the document itself.
type Repository interface {
	Create(ctx context.Context, o *InboundOrder) error
	Update(ctx context.Context, o *InboundOrder) error

	// GetByID returns the document (without batches) or a NOT_FOUND error.
	GetByID(ctx context.Context, orderID id.ID) (*InboundOrder, error)

	// ListBatches returns the batches received with the order.
	ListBatches(ctx context.Context, orderID id.ID) ([]*batch.Batch, error)
}

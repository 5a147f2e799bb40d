package batch

import (
	"context"
	"time"

	"freshstock/internal/core/id"
	"freshstock/internal/domain/catalogs/product"
)

// Repository defines the storage contract for batches.
//
// The ForUpdate variants take row locks and must be called inside a
// transaction started through tx.Manager; the allocation engine relies
// on them to serialize concurrent reservations against the same stock.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	Update(ctx context.Context, b *Batch) error

	// GetByID returns the batch or a NOT_FOUND error.
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// GetForUpdate returns the batch with a row lock held, or NOT_FOUND.
	GetForUpdate(ctx context.Context, batchID id.ID) (*Batch, error)

	// ListByProductForUpdate returns all batches of the product ordered
	// by id ascending, with row locks held. Batches are identified by
	// time-ordered ids, so ascending id order is receiving order.
	ListByProductForUpdate(ctx context.Context, productID id.ID) ([]*Batch, error)

	// ListBySection returns the batches stored in a section ordered by
	// due date ascending.
	ListBySection(ctx context.Context, sectionID id.ID) ([]*Batch, error)

	// CountBySection returns how many batches a section currently holds.
	CountBySection(ctx context.Context, sectionID id.ID) (int, error)

	// ListAvailable returns batches with remaining stock whose due date
	// falls strictly after minDueDate, optionally restricted to one
	// product category, ordered by product id then due date.
	ListAvailable(ctx context.Context, minDueDate time.Time, category *product.Category) ([]*Batch, error)

	// ListExpiringForManager returns batches of the given category due
	// on or before maxDueDate that sit in sections supervised by the
	// manager, ordered by due date ascending.
	ListExpiringForManager(ctx context.Context, category product.Category, maxDueDate time.Time, managerID id.ID) ([]*Batch, error)
}

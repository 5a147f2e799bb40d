package purchase

import (
	"context"

	"freshstock/internal/core/id"
)

// Repository defines the storage contract for purchase orders and their
// lines. Mutating calls run inside the transaction carried by ctx.
type Repository interface {
	Create(ctx context.Context, o *PurchaseOrder) error
	Update(ctx context.Context, o *PurchaseOrder) error

	// GetByID returns the order or a NOT_FOUND error.
	GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// FindOpenByBuyer returns the buyer's open order, or (nil, nil)
	// when the buyer has none.
	FindOpenByBuyer(ctx context.Context, buyerID id.ID) (*PurchaseOrder, error)

	// ListLines returns the order's lines ordered by product id.
	ListLines(ctx context.Context, orderID id.ID) ([]*Line, error)

	// FindLineByBatch returns the order's line for the batch, or
	// (nil, nil) when there is none.
	FindLineByBatch(ctx context.Context, orderID, batchID id.ID) (*Line, error)

	// GetLineByProduct returns the order's line for the product or a
	// NOT_FOUND error.
	GetLineByProduct(ctx context.Context, orderID, productID id.ID) (*Line, error)

	// SaveLine inserts the line or updates it by id.
	SaveLine(ctx context.Context, l *Line) error

	DeleteLine(ctx context.Context, lineID id.ID) error
}

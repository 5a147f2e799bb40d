package batch

import (
	"context"
	"sort"
	"time"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/pkg/logger"
)

// SafetyWindowDays is the minimum number of days a batch's due date must
// lie ahead of the order date for the batch to be sold. The comparison
// is exclusive: a batch due exactly SafetyWindowDays from now is not
// sellable.
const SafetyWindowDays = 21

// Allocator reserves and releases batch stock for purchase orders.
// It is the only writer of Batch.CurrentQuantity; callers must invoke
// it inside a transaction so that the row locks taken by the repository
// serialize concurrent allocations.
type Allocator struct {
	batches Repository
}

func NewAllocator(batches Repository) *Allocator {
	return &Allocator{batches: batches}
}

// Allocate finds the oldest sellable batch of the product that can cover
// qty units, decrements its current quantity and returns it.
//
// Candidate batches must have a due date strictly more than
// SafetyWindowDays after asOf and at least qty units remaining. Among
// candidates the one with the lowest id wins; ids are time-ordered, so
// the oldest received batch is drawn down first. A zero qty succeeds
// against any sellable batch without changing stock.
//
// Returns an OUT_OF_STOCK error naming the product when no batch
// qualifies.
func (a *Allocator) Allocate(ctx context.Context, productID id.ID, qty int, asOf time.Time) (*Batch, error) {
	if qty < 0 {
		return nil, apperror.NewValidation("quantity must not be negative").
			WithDetail("productId", productID.String()).
			WithDetail("quantity", qty)
	}

	candidates, err := a.batches.ListByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Repository orders by id already; sort again so the choice does not
	// depend on the storage implementation.
	sort.Slice(candidates, func(i, j int) bool {
		return id.Less(candidates[i].ID, candidates[j].ID)
	})

	for _, b := range candidates {
		if !b.Sellable(asOf) {
			continue
		}
		if b.CurrentQuantity < qty {
			continue
		}

		if err := b.Reserve(qty); err != nil {
			return nil, err
		}
		if err := a.batches.Update(ctx, b); err != nil {
			return nil, err
		}

		logger.Debug(ctx, "batch allocated",
			"batch_id", b.ID.String(),
			"product_id", productID.String(),
			"quantity", qty,
			"remaining", b.CurrentQuantity)
		return b, nil
	}

	return nil, apperror.NewOutOfStock(productID.String())
}

// Release returns qty previously reserved units to the batch. Used when
// an order is re-submitted or a product is dropped from it.
func (a *Allocator) Release(ctx context.Context, batchID id.ID, qty int) error {
	b, err := a.batches.GetForUpdate(ctx, batchID)
	if err != nil {
		return err
	}

	if err := b.Restore(qty); err != nil {
		return err
	}
	if err := a.batches.Update(ctx, b); err != nil {
		return err
	}

	logger.Debug(ctx, "batch released",
		"batch_id", batchID.String(),
		"quantity", qty,
		"remaining", b.CurrentQuantity)
	return nil
}

package purchase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/core/tx"
	"freshstock/internal/core/types"
	"freshstock/internal/domain/audit"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/pkg/logger"
	"freshstock/pkg/numerator"
)

// LineItem is one product request in a submitted cart.
type LineItem struct {
	ProductID id.ID
	Quantity  int
}

// OrderView is an order with its lines and settled total.
type OrderView struct {
	Order *PurchaseOrder
	Lines []*Line
	Total types.Money
}

// Service provides business logic for purchase orders: submitting a
// cart, closing it and dropping products from it. Every mutating
// operation runs in a single transaction, so either the whole cart
// state moves or none of it does.
type Service struct {
	orders    Repository
	buyers    buyer.Repository
	products  product.Repository
	allocator *batch.Allocator
	txm       tx.Manager
	numerator *numerator.Service
	auditor   audit.Recorder
	cache     batch.ReportCache
}

// NewService creates a purchase order service. cache may be nil.
func NewService(
	orders Repository,
	buyers buyer.Repository,
	products product.Repository,
	allocator *batch.Allocator,
	txm tx.Manager,
	num *numerator.Service,
	auditor audit.Recorder,
	cache batch.ReportCache,
) *Service {
	return &Service{
		orders:    orders,
		buyers:    buyers,
		products:  products,
		allocator: allocator,
		txm:       txm,
		numerator: num,
		auditor:   auditor,
		cache:     cache,
	}
}

// Create submits a cart for the buyer and returns the running total of
// the resulting order.
//
// If the buyer already has an open order, the submission merges into
// it: every existing line first releases its stock back to its batch,
// the requested quantities are summed with the existing ones per
// product, and the combined cart is allocated from scratch. The final
// stock level therefore depends only on the summed quantities, however
// the requests were split across submissions.
//
// Allocation walks the requested products in product id order. Products
// that cannot be covered are collected and reported together in a
// single OUT_OF_STOCK error, and the transaction rolls back, leaving no
// partial order behind.
func (s *Service) Create(ctx context.Context, buyerID id.ID, date time.Time, items []LineItem) (types.Money, error) {
	total := types.Zero()

	if len(items) == 0 {
		return total, apperror.NewValidation("order must contain at least one product").
			WithDetail("field", "products")
	}
	for _, it := range items {
		if id.IsNil(it.ProductID) {
			return total, apperror.NewValidation("product is required").
				WithDetail("field", "products")
		}
		if it.Quantity < 0 {
			return total, apperror.NewValidation("quantity must not be negative").
				WithDetail("productId", it.ProductID.String()).
				WithDetail("quantity", it.Quantity)
		}
	}
	if date.IsZero() {
		date = time.Now()
	}

	var order *PurchaseOrder
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.buyers.GetByID(ctx, buyerID); err != nil {
			return err
		}

		var err error
		order, err = s.orders.FindOpenByBuyer(ctx, buyerID)
		if err != nil {
			return err
		}

		requested := aggregateItems(items)

		if order == nil {
			order = NewPurchaseOrder(buyerID)
			order.Date = date

			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PO"), nil, date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			order.Number = number

			if err := s.orders.Create(ctx, order); err != nil {
				return fmt.Errorf("create purchase order: %w", err)
			}
		} else {
			lines, err := s.orders.ListLines(ctx, order.ID)
			if err != nil {
				return err
			}
			// Give every reservation back before re-allocating the
			// combined cart.
			for _, l := range lines {
				if err := s.allocator.Release(ctx, l.BatchID, l.Quantity); err != nil {
					return err
				}
			}
			requested = mergeLines(lines, requested)

			order.Date = date
			if err := s.orders.Update(ctx, order); err != nil {
				return fmt.Errorf("update purchase order: %w", err)
			}
		}

		var outOfStock []string
		touched := make(map[id.ID]bool)

		for _, it := range requested {
			if _, err := s.products.GetByID(ctx, it.ProductID); err != nil {
				return err
			}

			b, err := s.allocator.Allocate(ctx, it.ProductID, it.Quantity, date)
			if err != nil {
				if apperror.IsOutOfStock(err) {
					outOfStock = append(outOfStock, it.ProductID.String())
					continue
				}
				return err
			}

			line, err := s.orders.FindLineByBatch(ctx, order.ID, b.ID)
			if err != nil {
				return err
			}
			if line == nil {
				// Price is frozen at first allocation from the batch.
				line = NewLine(order.ID, b.ID, it.ProductID, it.Quantity, b.UnitPrice)
			} else {
				line.Quantity = it.Quantity
			}
			if err := s.orders.SaveLine(ctx, line); err != nil {
				return fmt.Errorf("save line: %w", err)
			}
			touched[line.ID] = true
			total = total.Add(line.Subtotal())
		}

		if len(outOfStock) > 0 {
			return apperror.NewOutOfStock(outOfStock...)
		}

		// A merged product can land on a different batch than before;
		// lines not rewritten above are stale and their stock was
		// already released.
		lines, err := s.orders.ListLines(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if !touched[l.ID] {
				if err := s.orders.DeleteLine(ctx, l.ID); err != nil {
					return fmt.Errorf("delete stale line: %w", err)
				}
			}
		}

		return s.auditor.Record(ctx, audit.Entry{
			Entity:   "purchase_order",
			EntityID: order.ID,
			Action:   audit.ActionUpdate,
			ActorID:  buyerID,
			Payload:  map[string]any{"requested": len(requested), "total": total},
		})
	})
	if err != nil {
		return types.Zero(), err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logger.Info(ctx, "purchase order submitted",
		"id", order.ID, "number", order.Number,
		"buyer_id", buyerID, "total", total)
	return total, nil
}

// Close settles the buyer's order and returns its total, summed from
// the persisted lines' frozen prices. Closing twice fails with
// ORDER_ALREADY_CLOSED.
func (s *Service) Close(ctx context.Context, orderID, buyerID id.ID) (types.Money, error) {
	total := types.Zero()

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureOwnedBy(buyerID); err != nil {
			return err
		}
		if err := order.Close(); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, order); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}

		lines, err := s.orders.ListLines(ctx, orderID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			total = total.Add(l.Subtotal())
		}

		return s.auditor.Record(ctx, audit.Entry{
			Entity:   "purchase_order",
			EntityID: orderID,
			Action:   audit.ActionClose,
			ActorID:  buyerID,
			Payload:  map[string]any{"total": total},
		})
	})
	if err != nil {
		return types.Zero(), err
	}

	logger.Info(ctx, "purchase order closed", "id", orderID, "buyer_id", buyerID, "total", total)
	return total, nil
}

// DropProduct removes one product's line from the buyer's open order
// and returns its quantity to the batch it was drawn from. Dropping
// from a closed order fails with ORDER_ALREADY_CLOSED.
func (s *Service) DropProduct(ctx context.Context, orderID, productID, buyerID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureOwnedBy(buyerID); err != nil {
			return err
		}
		if err := order.EnsureOpen(); err != nil {
			return err
		}

		if _, err := s.products.GetByID(ctx, productID); err != nil {
			return err
		}

		line, err := s.orders.GetLineByProduct(ctx, orderID, productID)
		if err != nil {
			return err
		}

		if err := s.allocator.Release(ctx, line.BatchID, line.Quantity); err != nil {
			return err
		}
		if err := s.orders.DeleteLine(ctx, line.ID); err != nil {
			return fmt.Errorf("delete line: %w", err)
		}

		return s.auditor.Record(ctx, audit.Entry{
			Entity:   "purchase_order",
			EntityID: orderID,
			Action:   audit.ActionDelete,
			ActorID:  buyerID,
			Payload:  map[string]any{"productId": productID.String(), "quantity": line.Quantity},
		})
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logger.Info(ctx, "product dropped from purchase order",
		"id", orderID, "product_id", productID, "buyer_id", buyerID)
	return nil
}

// Get returns the buyer's order with its lines and running total.
func (s *Service) Get(ctx context.Context, orderID, buyerID id.ID) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.EnsureOwnedBy(buyerID); err != nil {
		return nil, err
	}

	lines, err := s.orders.ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return &OrderView{Order: order, Lines: lines, Total: total}, nil
}

// aggregateItems sums duplicate products within one submission and
// returns the requests ordered by product id.
func aggregateItems(items []LineItem) []LineItem {
	byProduct := make(map[id.ID]int, len(items))
	for _, it := range items {
		byProduct[it.ProductID] += it.Quantity
	}
	return sortedItems(byProduct)
}

// mergeLines sums the quantities already on the order's lines with the
// newly requested ones.
func mergeLines(lines []*Line, requested []LineItem) []LineItem {
	byProduct := make(map[id.ID]int, len(lines)+len(requested))
	for _, l := range lines {
		byProduct[l.ProductID] += l.Quantity
	}
	for _, it := range requested {
		byProduct[it.ProductID] += it.Quantity
	}
	return sortedItems(byProduct)
}

func sortedItems(byProduct map[id.ID]int) []LineItem {
	out := make([]LineItem, 0, len(byProduct))
	for productID, qty := range byProduct {
		out = append(out, LineItem{ProductID: productID, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return id.Less(out[i].ProductID, out[j].ProductID)
	})
	return out
}

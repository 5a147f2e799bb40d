// Package purchase provides the purchase order document: a buyer's cart
// of product requests fulfilled through batch allocation.
package purchase

import (
	"context"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
)

// Status of a purchase order. An open order is the buyer's live cart;
// closing it freezes the lines and settles the total.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// PurchaseOrder is a buyer's order. A buyer has at most one open order
// at a time; submitting more items merges them into it.
type PurchaseOrder struct {
	entity.Document

	BuyerID id.ID  `db:"buyer_id" json:"buyerId"`
	Status  Status `db:"status" json:"status"`
}

// NewPurchaseOrder creates an open order for the buyer.
func NewPurchaseOrder(buyerID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document: entity.NewDocument(),
		BuyerID:  buyerID,
		Status:   StatusOpen,
	}
}

// Validate implements entity.Validatable interface.
func (o *PurchaseOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.BuyerID) {
		return apperror.NewValidation("buyer is required").
			WithDetail("field", "buyerId")
	}

	switch o.Status {
	case StatusOpen, StatusClosed:
	default:
		return apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}

	return nil
}

// EnsureOwnedBy fails with UNAUTHORIZED unless the buyer owns the order.
func (o *PurchaseOrder) EnsureOwnedBy(buyerID id.ID) error {
	if o.BuyerID != buyerID {
		return apperror.NewUnauthorized(buyerID.String(), "purchase order belongs to another buyer")
	}
	return nil
}

// EnsureOpen fails with ORDER_ALREADY_CLOSED unless the order is open.
func (o *PurchaseOrder) EnsureOpen() error {
	if o.Status == StatusClosed {
		return apperror.NewOrderClosed(o.ID.String())
	}
	return nil
}

// Close transitions the order to closed.
func (o *PurchaseOrder) Close() error {
	if err := o.EnsureOpen(); err != nil {
		return err
	}
	o.Status = StatusClosed
	return nil
}

// Line ties an order to one batch: the quantity drawn from the batch
// and the unit price snapshotted at allocation time. An order holds at
// most one line per batch.
type Line struct {
	ID        id.ID       `db:"id" json:"id"`
	OrderID   id.ID       `db:"order_id" json:"orderId"`
	BatchID   id.ID       `db:"batch_id" json:"batchId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewLine creates a line with the batch's price frozen in.
func NewLine(orderID, batchID, productID id.ID, quantity int, unitPrice types.Money) *Line {
	return &Line{
		ID:        id.New(),
		OrderID:   orderID,
		BatchID:   batchID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

// Subtotal is quantity times the frozen unit price.
func (l *Line) Subtotal() types.Money {
	return types.MulInt(l.UnitPrice, l.Quantity)
}

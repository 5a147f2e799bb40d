// Package batch provides the Batch entity, the allocation engine that
// reserves stock for purchase orders, and the stock reports.
//
// A batch is a dated lot of one product received through one inbound
// order into one section. Its currentQuantity is the only piece of
// mutable shared state in the system; it is written exclusively by the
// Allocator (reserve and release) inside a transaction.
package batch

import (
	"context"
	"time"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
)

// Batch represents a dated lot of a product.
type Batch struct {
	entity.BaseEntity

	// Number is a human-readable batch label (auto-generated)
	Number string `db:"number" json:"number"`

	// ProductID is the product this lot contains
	ProductID id.ID `db:"product_id" json:"productId"`

	// InboundOrderID is the inbound order that brought this lot in
	InboundOrderID id.ID `db:"inbound_order_id" json:"inboundOrderId"`

	// Temperatures at receiving time and the storage minimum
	CurrentTemperature float64 `db:"current_temperature" json:"currentTemperature"`
	MinimumTemperature float64 `db:"minimum_temperature" json:"minimumTemperature"`

	// InitialQuantity is the received unit count; CurrentQuantity is what
	// remains after reservations. Invariant: 0 <= current <= initial.
	InitialQuantity int `db:"initial_quantity" json:"initialQuantity"`
	CurrentQuantity int `db:"current_quantity" json:"currentQuantity"`

	ManufacturingDate time.Time `db:"manufacturing_date" json:"manufacturingDate"`
	ManufacturingTime time.Time `db:"manufacturing_time" json:"manufacturingTime"`
	DueDate           time.Time `db:"due_date" json:"dueDate"`

	// UnitPrice is the selling price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewBatch creates a new Batch for a product with the full initial quantity available.
func NewBatch(productID id.ID, initialQuantity int, dueDate time.Time, unitPrice types.Money) *Batch {
	return &Batch{
		BaseEntity:      entity.NewBaseEntity(),
		ProductID:       productID,
		InitialQuantity: initialQuantity,
		CurrentQuantity: initialQuantity,
		DueDate:         dueDate,
		UnitPrice:       unitPrice,
	}
}

// Validate implements entity.Validatable interface.
func (b *Batch) Validate(ctx context.Context) error {
	if id.IsNil(b.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if b.InitialQuantity <= 0 {
		return apperror.NewValidation("initial quantity must be positive").
			WithDetail("field", "initialQuantity")
	}

	if b.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}

	if b.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}

// Sellable reports whether the batch may still be sold as of the given
// date: its due date must lie strictly more than SafetyWindowDays ahead.
// The boundary is exclusive: dueDate == asOf + SafetyWindowDays is not
// sellable.
func (b *Batch) Sellable(asOf time.Time) bool {
	return b.DueDate.AddDate(0, 0, -SafetyWindowDays).After(asOf)
}

// Reserve removes qty units from the batch on behalf of an order line.
// Fails if the result would leave the quantity outside [0, initial];
// quantities are never clamped.
func (b *Batch) Reserve(qty int) error {
	if qty < 0 {
		return apperror.NewValidation("reserve quantity must not be negative").
			WithDetail("quantity", qty)
	}
	if b.CurrentQuantity-qty < 0 {
		return apperror.NewBatchQuantity(b.ID.String(), "reservation exceeds available quantity").
			WithDetail("requested", qty).
			WithDetail("available", b.CurrentQuantity)
	}
	b.CurrentQuantity -= qty
	return nil
}

// Restore returns qty previously reserved units to the batch.
// Fails if the result would exceed the initial quantity.
func (b *Batch) Restore(qty int) error {
	if qty < 0 {
		return apperror.NewValidation("restore quantity must not be negative").
			WithDetail("quantity", qty)
	}
	if b.CurrentQuantity+qty > b.InitialQuantity {
		return apperror.NewBatchQuantity(b.ID.String(), "restore exceeds initial quantity").
			WithDetail("restored", qty).
			WithDetail("current", b.CurrentQuantity).
			WithDetail("initial", b.InitialQuantity)
	}
	b.CurrentQuantity += qty
	return nil
}

// SoldQuantity returns how many units have been taken from the batch.
func (b *Batch) SoldQuantity() int {
	return b.InitialQuantity - b.CurrentQuantity
}

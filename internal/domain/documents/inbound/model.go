// Package inbound provides the inbound order document: the act of
// receiving a set of batches into a warehouse section.
package inbound

import (
	"context"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/batch"
)

// InboundOrder records the receipt of one or more batches into a section.
type InboundOrder struct {
	entity.Document

	// SectionID is the section the batches are stored in
	SectionID id.ID `db:"section_id" json:"sectionId"`

	// Batches received with this order. Loaded separately from the
	// document row.
	Batches []*batch.Batch `db:"-" json:"batches"`
}

// NewInboundOrder creates an inbound order into the given section.
func NewInboundOrder(sectionID id.ID) *InboundOrder {
	return &InboundOrder{
		Document:  entity.NewDocument(),
		SectionID: sectionID,
	}
}

// Validate implements entity.Validatable interface.
func (o *InboundOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(o.SectionID) {
		return apperror.NewValidation("section is required").
			WithDetail("field", "sectionId")
	}

	if len(o.Batches) == 0 {
		return apperror.NewValidation("an inbound order must carry at least one batch").
			WithDetail("field", "batches")
	}

	for _, b := range o.Batches {
		if err := b.Validate(ctx); err != nil {
			return err
		}
	}

	return nil
}

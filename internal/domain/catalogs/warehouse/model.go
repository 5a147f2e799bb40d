// Package warehouse provides the Warehouse catalog.
// Warehouses represent physical locations; their storage is split into
// sections (see the section package).
package warehouse

import (
	"context"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Location is the physical address
	Location string `db:"location" json:"location"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name, location string) *Warehouse {
	return &Warehouse{
		Catalog:  entity.NewCatalog(code, name),
		Location: location,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if w.Location == "" {
		return apperror.NewValidation("location is required").
			WithDetail("field", "location")
	}

	return nil
}

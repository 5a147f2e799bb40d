// Package section provides the Section catalog: a storage zone inside a
// warehouse with a fixed temperature regime and batch capacity, run by
// one manager.
package section

import (
	"context"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/catalogs/product"
)

// Section represents a storage zone inside a warehouse.
type Section struct {
	entity.Catalog

	// WarehouseID is the owning warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// ManagerID is the manager responsible for this section
	ManagerID id.ID `db:"manager_id" json:"managerId"`

	// Category is the storage regime (fresh, chilled, frozen)
	Category product.Category `db:"category" json:"category"`

	// MaxBatches is the batch capacity of the section
	MaxBatches int `db:"max_batches" json:"maxBatches"`
}

// NewSection creates a new Section.
func NewSection(code, name string, warehouseID, managerID id.ID, category product.Category, maxBatches int) *Section {
	return &Section{
		Catalog:     entity.NewCatalog(code, name),
		WarehouseID: warehouseID,
		ManagerID:   managerID,
		Category:    category,
		MaxBatches:  maxBatches,
	}
}

// Validate implements entity.Validatable interface.
func (s *Section) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if id.IsNil(s.ManagerID) {
		return apperror.NewValidation("manager is required").
			WithDetail("field", "managerId")
	}

	if !s.Category.Valid() {
		return apperror.NewValidation("invalid section category").
			WithDetail("field", "category").
			WithDetail("value", string(s.Category))
	}

	if s.MaxBatches <= 0 {
		return apperror.NewValidation("maxBatches must be positive").
			WithDetail("field", "maxBatches")
	}

	return nil
}

// ManagedBy reports whether the given manager runs this section.
func (s *Section) ManagedBy(managerID id.ID) bool {
	return s.ManagerID == managerID
}

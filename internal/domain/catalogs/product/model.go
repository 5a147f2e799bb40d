// Package product provides the Product catalog: the reference data every
// batch and cart line points at.
package product

import (
	"context"
	"strings"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
)

// Category classifies how a product (and the section storing it) is kept.
type Category string

const (
	CategoryFresh   Category = "fresh"
	CategoryChilled Category = "chilled"
	CategoryFrozen  Category = "frozen"
)

// ParseCategoryCode maps the short wire codes to categories:
// FS (fresh), RF (chilled), FF (frozen).
func ParseCategoryCode(code string) (Category, error) {
	switch strings.ToUpper(code) {
	case "FS":
		return CategoryFresh, nil
	case "RF":
		return CategoryChilled, nil
	case "FF":
		return CategoryFrozen, nil
	default:
		return "", apperror.NewValidation(
			"invalid category, try again with one of the options: 'FS', 'RF' or 'FF' " +
				"for fresh, chilled or frozen products respectively").
			WithDetail("field", "category").
			WithDetail("value", code)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFresh, CategoryChilled, CategoryFrozen:
		return true
	}
	return false
}

// Product represents a sellable product.
type Product struct {
	entity.Catalog

	// Brand is the product brand
	Brand string `db:"brand" json:"brand"`

	// Category defines the storage regime
	Category Category `db:"category" json:"category"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, brand string, category Category) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Brand:    brand,
		Category: category,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !p.Category.Valid() {
		return apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	return nil
}

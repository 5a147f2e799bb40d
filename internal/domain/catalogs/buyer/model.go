// Package buyer provides the Buyer catalog.
package buyer

import (
	"context"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
)

// Buyer is a customer who owns purchase orders.
type Buyer struct {
	entity.Catalog

	Username string `db:"username" json:"username"`
}

// NewBuyer creates a new Buyer.
func NewBuyer(code, name, username string) *Buyer {
	return &Buyer{
		Catalog:  entity.NewCatalog(code, name),
		Username: username,
	}
}

// Validate implements entity.Validatable interface.
func (b *Buyer) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if b.Username == "" {
		return apperror.NewValidation("username is required").
			WithDetail("field", "username")
	}

	return nil
}

package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// List retrieves products, optionally restricted to one category.
func (r *ProductRepo) List(ctx context.Context, category *product.Category) ([]*product.Product, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if category != nil {
			q = q.Where(squirrel.Eq{"category": *category})
		}
		return q
	})
}

package catalog_repo

import (
	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/infrastructure/storage/postgres"
)

const buyerTable = "cat_buyers"

var _ buyer.Repository = (*BuyerRepo)(nil)

// BuyerRepo implements buyer.Repository.
type BuyerRepo struct {
	*BaseCatalogRepo[*buyer.Buyer]
}

// NewBuyerRepo creates a new buyer repository.
func NewBuyerRepo(txm *postgres.TxManager) *BuyerRepo {
	return &BuyerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			buyerTable,
			postgres.ExtractDBColumns[buyer.Buyer](),
			func() *buyer.Buyer { return &buyer.Buyer{} },
		),
	}
}

package catalog_repo

import (
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/infrastructure/storage/postgres"
)

const managerTable = "cat_managers"

var _ manager.Repository = (*ManagerRepo)(nil)

// ManagerRepo implements manager.Repository.
type ManagerRepo struct {
	*BaseCatalogRepo[*manager.Manager]
}

// NewManagerRepo creates a new manager repository.
func NewManagerRepo(txm *postgres.TxManager) *ManagerRepo {
	return &ManagerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			managerTable,
			postgres.ExtractDBColumns[manager.Manager](),
			func() *manager.Manager { return &manager.Manager{} },
		),
	}
}

package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"freshstock/internal/core/id"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/internal/infrastructure/storage/postgres"
)

const sectionTable = "cat_sections"

var _ section.Repository = (*SectionRepo)(nil)

// SectionRepo implements section.Repository.
type SectionRepo struct {
	*BaseCatalogRepo[*section.Section]
}

// NewSectionRepo creates a new section repository.
func NewSectionRepo(txm *postgres.TxManager) *SectionRepo {
	return &SectionRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			sectionTable,
			postgres.ExtractDBColumns[section.Section](),
			func() *section.Section { return &section.Section{} },
		),
	}
}

// ListByWarehouse retrieves the sections of one warehouse.
func (r *SectionRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*section.Section, error) {
	return r.list(ctx, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return q.Where(squirrel.Eq{"warehouse_id": warehouseID})
	})
}

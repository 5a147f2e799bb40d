// Package stock_repo provides the PostgreSQL implementation of the
// batch repository. Row locks taken here serialize concurrent
// allocations against the same product's stock.
package stock_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/infrastructure/storage/postgres"
)

const batchTable = "stock_batches"

var _ batch.Repository = (*BatchRepo)(nil)

// BatchRepo implements batch.Repository.
type BatchRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txm *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[batch.Batch](),
	}
}

func (r *BatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BatchRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(prefixed("b", r.cols)...).
		From(batchTable + " b")
}

// Create inserts a new batch.
func (r *BatchRepo) Create(ctx context.Context, b *batch.Batch) error {
	sql, args, err := r.builder().
		Insert(batchTable).
		SetMap(postgres.StructToMap(b)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Update rewrites a batch row with optimistic locking on version.
func (r *BatchRepo) Update(ctx context.Context, b *batch.Batch) error {
	data := postgres.StructToMap(b)
	version := data["version"]
	delete(data, "id")
	delete(data, "version")

	sql, args, err := r.builder().
		Update(batchTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(batchTable, b.ID)
	}

	b.SetVersion(b.Version + 1)
	return nil
}

// GetByID retrieves a batch.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*batch.Batch, error) {
	return r.get(ctx, batchID, false)
}

// GetForUpdate retrieves a batch holding a row lock. Must run inside a
// transaction.
func (r *BatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*batch.Batch, error) {
	return r.get(ctx, batchID, true)
}

func (r *BatchRepo) get(ctx context.Context, batchID id.ID, forUpdate bool) (*batch.Batch, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"b.id": batchID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b batch.Batch
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListByProductForUpdate retrieves all batches of a product ordered by
// id ascending, holding row locks. Ordering by id is ordering by
// receipt, since ids are time-ordered.
func (r *BatchRepo) ListByProductForUpdate(ctx context.Context, productID id.ID) ([]*batch.Batch, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"b.product_id": productID}).
		OrderBy("b.id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*batch.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches by product: %w", err)
	}
	return out, nil
}

// ListBySection retrieves the batches stored in a section ordered by
// due date.
func (r *BatchRepo) ListBySection(ctx context.Context, sectionID id.ID) ([]*batch.Batch, error) {
	sql, args, err := r.baseSelect().
		Join("doc_inbound_orders io ON io.id = b.inbound_order_id").
		Where(squirrel.Eq{"io.section_id": sectionID}).
		OrderBy("b.due_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*batch.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches by section: %w", err)
	}
	return out, nil
}

// CountBySection returns how many batches a section holds.
func (r *BatchRepo) CountBySection(ctx context.Context, sectionID id.ID) (int, error) {
	sql, args, err := r.builder().
		Select("COUNT(*)").
		From(batchTable + " b").
		Join("doc_inbound_orders io ON io.id = b.inbound_order_id").
		Where(squirrel.Eq{"io.section_id": sectionID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count batches by section: %w", err)
	}
	return count, nil
}

// ListAvailable retrieves batches with remaining stock due strictly
// after minDueDate, optionally restricted to one product category.
func (r *BatchRepo) ListAvailable(ctx context.Context, minDueDate time.Time, category *product.Category) ([]*batch.Batch, error) {
	q := r.baseSelect().
		Where(squirrel.Gt{"b.current_quantity": 0}).
		Where(squirrel.Gt{"b.due_date": minDueDate}).
		OrderBy("b.product_id", "b.due_date")

	if category != nil {
		q = q.Join("cat_products p ON p.id = b.product_id").
			Where(squirrel.Eq{"p.category": *category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*batch.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	return out, nil
}

// ListExpiringForManager retrieves batches of one category due on or
// before maxDueDate in the sections supervised by the manager.
func (r *BatchRepo) ListExpiringForManager(ctx context.Context, category product.Category, maxDueDate time.Time, managerID id.ID) ([]*batch.Batch, error) {
	sql, args, err := r.baseSelect().
		Join("doc_inbound_orders io ON io.id = b.inbound_order_id").
		Join("cat_sections s ON s.id = io.section_id").
		Join("cat_products p ON p.id = b.product_id").
		Where(squirrel.Eq{"p.category": category}).
		Where(squirrel.LtOrEq{"b.due_date": maxDueDate}).
		Where(squirrel.Eq{"s.manager_id": managerID}).
		OrderBy("b.due_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*batch.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	return out, nil
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

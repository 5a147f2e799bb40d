package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/documents/inbound"
	"freshstock/internal/infrastructure/storage/postgres"
)

const inboundTable = "doc_inbound_orders"

var _ inbound.Repository = (*InboundRepo)(nil)

// InboundRepo implements inbound.Repository. Batch rows themselves are
// owned by stock_repo.BatchRepo; this repository manages the document.
type InboundRepo struct {
	txm       *postgres.TxManager
	cols      []string
	batchCols []string
}

// NewInboundRepo creates a new inbound order repository.
func NewInboundRepo(txm *postgres.TxManager) *InboundRepo {
	return &InboundRepo{
		txm:       txm,
		cols:      postgres.ExtractDBColumns[inbound.InboundOrder](),
		batchCols: postgres.ExtractDBColumns[batch.Batch](),
	}
}

func (r *InboundRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new inbound order document.
func (r *InboundRepo) Create(ctx context.Context, o *inbound.InboundOrder) error {
	sql, args, err := r.builder().
		Insert(inboundTable).
		SetMap(postgres.StructToMap(o)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert inbound order: %w", err)
	}
	return nil
}

// Update rewrites the document row with optimistic locking.
func (r *InboundRepo) Update(ctx context.Context, o *inbound.InboundOrder) error {
	data := postgres.StructToMap(o)
	version := data["version"]
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")
	delete(data, "updated_at")

	sql, args, err := r.builder().
		Update(inboundTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update inbound order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(inboundTable, o.ID)
	}

	o.SetVersion(o.Version + 1)
	return nil
}

// GetByID retrieves the document without its batches.
func (r *InboundRepo) GetByID(ctx context.Context, orderID id.ID) (*inbound.InboundOrder, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(inboundTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o inbound.InboundOrder
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inbound order", orderID.String())
		}
		return nil, fmt.Errorf("get inbound order: %w", err)
	}
	return &o, nil
}

// ListBatches retrieves the batches received with the order.
func (r *InboundRepo) ListBatches(ctx context.Context, orderID id.ID) ([]*batch.Batch, error) {
	sql, args, err := r.builder().
		Select(r.batchCols...).
		From("stock_batches").
		Where(squirrel.Eq{"inbound_order_id": orderID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*batch.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return out, nil
}

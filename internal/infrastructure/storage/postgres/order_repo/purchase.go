// Package order_repo provides PostgreSQL implementations for the order
// document repositories.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/id"
	"freshstock/internal/domain/orders/purchase"
	"freshstock/internal/infrastructure/storage/postgres"
)

const (
	purchaseTable = "doc_purchase_orders"
	lineTable     = "doc_purchase_order_lines"
)

var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	txm       *postgres.TxManager
	orderCols []string
	lineCols  []string
}

// NewPurchaseRepo creates a new purchase order repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txm:       txm,
		orderCols: postgres.ExtractDBColumns[purchase.PurchaseOrder](),
		lineCols:  postgres.ExtractDBColumns[purchase.Line](),
	}
}

func (r *PurchaseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new order.
func (r *PurchaseRepo) Create(ctx context.Context, o *purchase.PurchaseOrder) error {
	sql, args, err := r.builder().
		Insert(purchaseTable).
		SetMap(postgres.StructToMap(o)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// Update rewrites an order row with optimistic locking.
func (r *PurchaseRepo) Update(ctx context.Context, o *purchase.PurchaseOrder) error {
	data := postgres.StructToMap(o)
	version := data["version"]
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")
	delete(data, "updated_at")

	sql, args, err := r.builder().
		Update(purchaseTable).
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
		return fmt.Errorf("update purchase order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(purchaseTable, o.ID)
	}

	o.SetVersion(o.Version + 1)
	return nil
}

// GetByID retrieves an order.
func (r *PurchaseRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	sql, args, err := r.builder().
		Select(r.orderCols...).
		From(purchaseTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o purchase.PurchaseOrder
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &o, nil
}

// FindOpenByBuyer retrieves the buyer's open order, or (nil, nil) when
// the buyer has none.
func (r *PurchaseRepo) FindOpenByBuyer(ctx context.Context, buyerID id.ID) (*purchase.PurchaseOrder, error) {
	sql, args, err := r.builder().
		Select(r.orderCols...).
		From(purchaseTable).
		Where(squirrel.Eq{"buyer_id": buyerID}).
		Where(squirrel.Eq{"status": purchase.StatusOpen}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o purchase.PurchaseOrder
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open order: %w", err)
	}
	return &o, nil
}

func (r *PurchaseRepo) lineSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.lineCols...).
		From(lineTable)
}

// ListLines retrieves the order's lines ordered by product id.
func (r *PurchaseRepo) ListLines(ctx context.Context, orderID id.ID) ([]*purchase.Line, error) {
	sql, args, err := r.lineSelect().
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("product_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*purchase.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return out, nil
}

// FindLineByBatch retrieves the order's line for a batch, or (nil, nil)
// when there is none.
func (r *PurchaseRepo) FindLineByBatch(ctx context.Context, orderID, batchID id.ID) (*purchase.Line, error) {
	sql, args, err := r.lineSelect().
		Where(squirrel.Eq{"order_id": orderID}).
		Where(squirrel.Eq{"batch_id": batchID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l purchase.Line
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find line by batch: %w", err)
	}
	return &l, nil
}

// GetLineByProduct retrieves the order's line for a product, or a
// NOT_FOUND error.
func (r *PurchaseRepo) GetLineByProduct(ctx context.Context, orderID, productID id.ID) (*purchase.Line, error) {
	sql, args, err := r.lineSelect().
		Where(squirrel.Eq{"order_id": orderID}).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l purchase.Line
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product in the purchase order", productID.String())
		}
		return nil, fmt.Errorf("get line by product: %w", err)
	}
	return &l, nil
}

// SaveLine upserts a line by id.
func (r *PurchaseRepo) SaveLine(ctx context.Context, l *purchase.Line) error {
	data := postgres.StructToMap(l)

	q := r.builder().
		Insert(lineTable).
		SetMap(data).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save line: %w", err)
	}
	return nil
}

// DeleteLine removes a line by id.
func (r *PurchaseRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	sql, args, err := r.builder().
		Delete(lineTable).
		Where(squirrel.Eq{"id": lineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete line: %w", err)
	}
	return nil
}

// Package tx defines the transaction contract domain services depend
// on. The PostgreSQL implementation lives in
// infrastructure/storage/postgres; domain code never imports pgx.
package tx

import "context"

// Manager runs a function inside a database transaction.
type Manager interface {
	// RunInTransaction executes fn within a transaction: committed when
	// fn returns nil, rolled back otherwise. Nested calls join the
	// transaction already carried by ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager for query-only work.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction. Writes fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

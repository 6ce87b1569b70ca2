package ports

import (
	"context"

	"prodcatalog/src/core/domain"
)

// UnitOfWork owns one persistence context and the repositories sharing it.
// It is request-scoped: create one per logical operation, never share across
// goroutines, and Close it when done.
//
// Repositories stage changes; Commit makes them durable as one atomic write.
type UnitOfWork interface {
	// Products returns the product repository bound to this unit of work.
	// The instance is built lazily and reused for the unit of work's lifetime.
	Products() Repository[*domain.Product]

	// Commit persists all staged changes across every repository of this unit
	// of work atomically and returns the number of affected rows. On failure
	// nothing becomes durable and the change set is kept for inspection.
	Commit(ctx context.Context) (int64, error)

	// Rollback discards staged changes without touching storage: added
	// entities are detached, modified and soft-deleted ones revert to their
	// last-known-persisted state.
	Rollback()

	// ExecuteInTransaction runs op inside an explicit transaction boundary,
	// stronger than the implicit one Commit provides. If a transaction is
	// already open on this unit of work, op runs inline within it (flattened,
	// not nested). Otherwise: open, run op, flush staged changes, commit.
	// Any error rolls the transaction back and is returned to the caller.
	ExecuteInTransaction(ctx context.Context, op func(ctx context.Context) error) error

	// Close releases the open transaction, if any, and the underlying
	// persistence context. Safe to call when no transaction is active.
	Close(ctx context.Context) error
}

// UnitOfWorkFactory creates one UnitOfWork per request or logical operation,
// keeping change tracking isolated between concurrent requests.
type UnitOfWorkFactory interface {
	New(ctx context.Context) (UnitOfWork, error)
}

// ExecuteInTransactionWith runs op inside uow's explicit transaction and
// passes its value through. Interfaces cannot carry generic methods, so the
// value-returning variant lives here as a free function.
func ExecuteInTransactionWith[T any](ctx context.Context, uow UnitOfWork, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// HealthChecker reports whether the underlying storage is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
	"prodcatalog/src/infra/db"
)

// PostgresUnitOfWork implements ports.UnitOfWork over a pgx pool.
//
// Repositories created by it stage changes in memory; Commit applies them in
// one transaction. ExecuteInTransaction keeps an explicit transaction open on
// the unit of work, and reads as well as flushes join it until it closes.
// Transaction state moves NoTransaction -> TransactionOpen -> (committed or
// rolled back) -> NoTransaction; re-entrant calls run inline without opening
// a second transaction.
//
// A unit of work is request-scoped and not safe for concurrent use.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
	log  *slog.Logger

	tx       pgx.Tx
	products ports.Repository[*domain.Product]
	stagers  []txStager
}

// NewPostgresUnitOfWork creates a unit of work sharing the given pool.
func NewPostgresUnitOfWork(pg *db.Postgres, log *slog.Logger) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{
		pool: pg.Pool,
		log:  log,
	}
}

// querier returns the open transaction when one exists, the pool otherwise.
func (u *PostgresUnitOfWork) querier() querier {
	if u.tx != nil {
		return u.tx
	}
	return u.pool
}

// Products returns the product repository, building it on first use and
// reusing it for the lifetime of the unit of work.
func (u *PostgresUnitOfWork) Products() ports.Repository[*domain.Product] {
	if u.products == nil {
		r := newPostgresRepository(u, productSchema(), u.log)
		u.stagers = append(u.stagers, r)
		u.products = r
	}
	return u.products
}

// Commit persists all staged changes atomically and returns the affected row
// count. Inside an explicit transaction it flushes onto that transaction;
// otherwise it wraps the flush in its own. On error nothing becomes durable
// and the staged set is preserved.
func (u *PostgresUnitOfWork) Commit(ctx context.Context) (int64, error) {
	if u.tx != nil {
		return u.flushAll(ctx, u.tx)
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin commit transaction: %w", err)
	}
	affected, err := u.flushAll(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return affected, nil
}

func (u *PostgresUnitOfWork) flushAll(ctx context.Context, tx pgx.Tx) (int64, error) {
	var staged int
	for _, s := range u.stagers {
		staged += s.pending()
	}

	var affected int64
	for _, s := range u.stagers {
		n, err := s.flush(ctx, tx)
		if err != nil {
			return 0, err
		}
		affected += n
	}
	u.log.Debug("unit of work flushed", "staged", staged, "affected_rows", affected)
	return affected, nil
}

// Rollback discards staged changes and reverts tracked entities to their
// last-known-persisted state. Durable storage is not touched.
func (u *PostgresUnitOfWork) Rollback() {
	for _, s := range u.stagers {
		s.discard()
	}
}

// ExecuteInTransaction runs op inside an explicit transaction. When one is
// already open on this unit of work, op runs inline within it (flattened).
// Otherwise a transaction is opened, op runs, staged changes flush, and the
// transaction commits. Any failure rolls the transaction back, reverts the
// change set, and returns the error to the caller.
func (u *PostgresUnitOfWork) ExecuteInTransaction(ctx context.Context, op func(ctx context.Context) error) error {
	if u.tx != nil {
		return op(ctx)
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx

	err = op(ctx)
	if err == nil {
		_, err = u.flushAll(ctx, tx)
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		u.tx = nil
		u.Rollback()
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		u.tx = nil
		return fmt.Errorf("commit transaction: %w", err)
	}
	u.tx = nil
	return nil
}

// Close releases the open transaction, if any, and drops the change set.
// Safe to call when no transaction is active; the shared pool stays open.
func (u *PostgresUnitOfWork) Close(ctx context.Context) error {
	if u.tx != nil {
		_ = u.tx.Rollback(ctx)
		u.tx = nil
	}
	u.Rollback()
	return nil
}

// PostgresUnitOfWorkFactory builds one PostgresUnitOfWork per request.
type PostgresUnitOfWorkFactory struct {
	pg  *db.Postgres
	log *slog.Logger
}

// NewPostgresUnitOfWorkFactory constructs the factory.
func NewPostgresUnitOfWorkFactory(pg *db.Postgres, log *slog.Logger) *PostgresUnitOfWorkFactory {
	return &PostgresUnitOfWorkFactory{pg: pg, log: log}
}

// New creates a fresh unit of work over the shared pool.
func (f *PostgresUnitOfWorkFactory) New(_ context.Context) (ports.UnitOfWork, error) {
	return NewPostgresUnitOfWork(f.pg, f.log), nil
}

var (
	_ ports.UnitOfWork        = (*PostgresUnitOfWork)(nil)
	_ ports.UnitOfWorkFactory = (*PostgresUnitOfWorkFactory)(nil)
)

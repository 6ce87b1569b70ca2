package memory

import (
	"context"
	"log/slog"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
)

type stager interface {
	flush(ctx context.Context) (int64, error)
	discard()
	pending() int
}

// UnitOfWork implements ports.UnitOfWork over memory stores, with the same
// contract as the PostgreSQL unit of work: staged writes, atomic Commit,
// snapshot-based explicit transactions, flattened nesting.
type UnitOfWork struct {
	products     ports.Repository[*domain.Product]
	productStore *Store[*domain.Product]
	stagers      []stager
	txOpen       bool
	log          *slog.Logger
}

// NewUnitOfWork creates a unit of work over the shared store.
func NewUnitOfWork(products *Store[*domain.Product], log *slog.Logger) *UnitOfWork {
	return &UnitOfWork{
		productStore: products,
		log:          log,
	}
}

// Products returns the product repository, built lazily and reused.
func (u *UnitOfWork) Products() ports.Repository[*domain.Product] {
	if u.products == nil {
		r := newRepository(u.productStore)
		u.stagers = append(u.stagers, r)
		u.products = r
	}
	return u.products
}

// Commit applies all staged changes atomically. A constraint violation in any
// staged change leaves the store untouched and the change set in place.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	return u.flushAll(ctx)
}

func (u *UnitOfWork) flushAll(ctx context.Context) (int64, error) {
	var affected int64
	for _, s := range u.stagers {
		n, err := s.flush(ctx)
		if err != nil {
			return 0, err
		}
		affected += n
	}
	return affected, nil
}

// Rollback discards staged changes and reverts tracked entities to their
// last-known-persisted state.
func (u *UnitOfWork) Rollback() {
	for _, s := range u.stagers {
		s.discard()
	}
}

// ExecuteInTransaction runs op inside an explicit boundary. A nested call
// runs inline. On failure it rewinds the store to the state at entry, reverts
// the change set, and returns the error.
func (u *UnitOfWork) ExecuteInTransaction(ctx context.Context, op func(ctx context.Context) error) error {
	if u.txOpen {
		return op(ctx)
	}

	snap := u.productStore.snapshotState()
	u.txOpen = true
	defer func() { u.txOpen = false }()

	err := op(ctx)
	if err == nil {
		_, err = u.flushAll(ctx)
	}
	if err != nil {
		u.productStore.restoreState(snap)
		u.Rollback()
		return err
	}
	return nil
}

// Close drops the change set. The shared store stays as it is.
func (u *UnitOfWork) Close(_ context.Context) error {
	u.Rollback()
	u.txOpen = false
	return nil
}

// Factory builds one memory UnitOfWork per request over shared stores.
type Factory struct {
	products *Store[*domain.Product]
	log      *slog.Logger
}

// NewFactory constructs the factory.
func NewFactory(products *Store[*domain.Product], log *slog.Logger) *Factory {
	return &Factory{products: products, log: log}
}

// New creates a fresh unit of work.
func (f *Factory) New(_ context.Context) (ports.UnitOfWork, error) {
	return NewUnitOfWork(f.products, f.log), nil
}

var (
	_ ports.UnitOfWork        = (*UnitOfWork)(nil)
	_ ports.UnitOfWorkFactory = (*Factory)(nil)
)

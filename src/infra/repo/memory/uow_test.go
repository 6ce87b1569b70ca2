package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
	"prodcatalog/src/infra/logger"
)

func TestCommitIsAllOrNothing(t *testing.T) {
	store, uow := newUnitOfWork(t)

	valid := domain.NewProduct("Widget", 9.99).Value()
	// Built directly so the oversized description reaches the storage
	// constraint instead of being rejected up front.
	oversized := &domain.Product{Description: strings.Repeat("x", 251), Price: 1}

	uow.Products().Add(valid)
	uow.Products().Add(oversized)

	_, err := uow.Commit(context.Background())
	require.Error(t, err)

	assert.Equal(t, 0, store.Len(), "a failed commit persists nothing")
	assert.True(t, valid.IsTransient(), "the valid entity stays unassigned")
}

func TestFailedCommitKeepsChangeSet(t *testing.T) {
	store, uow := newUnitOfWork(t)

	uow.Products().Add(domain.NewProduct("Widget", 9.99).Value())
	uow.Products().Add(&domain.Product{Description: "", Price: 1})

	ctx := context.Background()
	_, err := uow.Commit(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	// The change set survives the failure; fixing nothing and retrying
	// fails the same way.
	_, err = uow.Commit(ctx)
	require.Error(t, err)
}

func TestRollbackRevertsTrackedEntities(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 1)

	ctx := context.Background()
	p, err := uow.Products().GetByID(ctx, 1)
	require.NoError(t, err)
	original := p.Description

	res := p.Rename("Renamed")
	require.True(t, res.IsSuccess())
	uow.Products().Update(p)

	uow.Products().Delete(p)
	require.True(t, p.IsDeleted)

	uow.Rollback()

	assert.Equal(t, original, p.Description, "tracked state reverts to last persisted")
	assert.False(t, p.IsDeleted)

	// Nothing left to commit.
	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestRollbackDetachesPendingAdds(t *testing.T) {
	store, uow := newUnitOfWork(t)

	p := domain.NewProduct("Widget", 9.99).Value()
	uow.Products().Add(p)
	uow.Rollback()

	affected, err := uow.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.Equal(t, 0, store.Len())
	assert.True(t, p.IsTransient())
}

func TestExecuteInTransactionCommitsOnSuccess(t *testing.T) {
	store, uow := newUnitOfWork(t)

	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		uow.Products().Add(domain.NewProduct("Widget", 9.99).Value())
		uow.Products().Add(domain.NewProduct("Gadget", 19.99).Value())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestExecuteInTransactionRethrowsAfterRollback(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 1)

	boom := errors.New("boom")
	ctx := context.Background()

	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		p, err := uow.Products().GetByID(ctx, 1)
		if err != nil {
			return err
		}
		p.Rename("Renamed")
		uow.Products().Update(p)
		if _, err := uow.Commit(ctx); err != nil {
			return err
		}
		uow.Products().Add(domain.NewProduct("Gadget", 19.99).Value())
		return boom
	})
	require.ErrorIs(t, err, boom, "the operation's error propagates to the caller")

	// The mid-transaction commit is rewound with everything else.
	assert.Equal(t, 1, store.Len())
	row, ok := store.Peek(1)
	require.True(t, ok)
	assert.Equal(t, "Product 001", row.Description)
}

func TestExecuteInTransactionFlattensNesting(t *testing.T) {
	store, uow := newUnitOfWork(t)

	var depth int
	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		uow.Products().Add(domain.NewProduct("Widget", 9.99).Value())
		return uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
			depth++
			uow.Products().Add(domain.NewProduct("Gadget", 19.99).Value())
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
	assert.Equal(t, 2, store.Len(), "inner boundary joins the outer one")
}

func TestExecuteInTransactionWithReturnsValue(t *testing.T) {
	store, uow := newUnitOfWork(t)

	id, err := ports.ExecuteInTransactionWith(context.Background(), uow, func(ctx context.Context) (int64, error) {
		p := domain.NewProduct("Widget", 9.99).Value()
		uow.Products().Add(p)
		if _, err := uow.Commit(ctx); err != nil {
			return 0, err
		}
		return p.ID, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, store.Len())
}

func TestCloseDiscardsWithoutPersisting(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 1)

	ctx := context.Background()
	p, err := uow.Products().GetByID(ctx, 1)
	require.NoError(t, err)
	p.Rename("Renamed")
	uow.Products().Update(p)

	require.NoError(t, uow.Close(ctx))

	assert.Equal(t, "Product 001", p.Description)
	row, ok := store.Peek(1)
	require.True(t, ok)
	assert.Equal(t, "Product 001", row.Description)
}

func TestFactoryIsolatesUnitsOfWork(t *testing.T) {
	store := NewProductStore()
	f := NewFactory(store, logger.Discard())

	ctx := context.Background()
	first, err := f.New(ctx)
	require.NoError(t, err)
	second, err := f.New(ctx)
	require.NoError(t, err)

	first.Products().Add(domain.NewProduct("Widget", 9.99).Value())

	// The second unit of work sees nothing until the first commits.
	n, err := second.Products().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = first.Products().GetByID(ctx, 1)
	require.Error(t, err)

	_, err = first.Commit(ctx)
	require.NoError(t, err)

	n, err = second.Products().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

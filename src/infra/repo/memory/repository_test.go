package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
	"prodcatalog/src/infra/logger"
)

func newUnitOfWork(t *testing.T) (*Store[*domain.Product], *UnitOfWork) {
	t.Helper()
	store := NewProductStore()
	return store, NewUnitOfWork(store, logger.Discard())
}

func seedProducts(t *testing.T, store *Store[*domain.Product], n int) {
	t.Helper()
	uow := NewUnitOfWork(store, logger.Discard())
	items := make([]*domain.Product, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.NewProduct(fmt.Sprintf("Product %03d", i+1), float64(i+1)).Value())
	}
	uow.Products().AddRange(items)
	affected, err := uow.Commit(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(n), affected)
}

func TestWritesAreStagingOnly(t *testing.T) {
	store, uow := newUnitOfWork(t)

	uow.Products().Add(domain.NewProduct("Widget", 9.99).Value())
	assert.Equal(t, 0, store.Len(), "Add must not persist")

	affected, err := uow.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 1, store.Len())
}

func TestCommitAssignsIdentityAndCreationTime(t *testing.T) {
	_, uow := newUnitOfWork(t)

	p := domain.NewProduct("Widget", 9.99).Value()
	uow.Products().Add(p)
	require.True(t, p.IsTransient())
	require.True(t, p.CreatedAt.IsZero())

	_, err := uow.Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Nil(t, p.UpdatedAt, "first persist must not set the update timestamp")
}

func TestGetByIDTracksAndGetAllFilters(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 3)

	ctx := context.Background()
	p, err := uow.Products().GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Product 002", p.Description)

	again, err := uow.Products().GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Same(t, p, again, "tracked entity is reused within the unit of work")

	all, err := uow.Products().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetByIDMissReturnsNotFound(t *testing.T) {
	_, uow := newUnitOfWork(t)

	_, err := uow.Products().GetByID(context.Background(), 9999)
	require.Error(t, err)

	domainErr, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.True(t, domainErr.IsNotFound())
	assert.Equal(t, "Product with 9999 not found", domainErr.Description())
}

func TestSoftDeleteHidesButKeepsRow(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 2)

	ctx := context.Background()
	p, err := uow.Products().GetByID(ctx, 1)
	require.NoError(t, err)

	uow.Products().Delete(p)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	all, err := uow.Products().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "soft-deleted row is filtered from reads")

	n, err := uow.Products().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The row itself is still data, not removal.
	row, ok := store.Peek(1)
	require.True(t, ok)
	assert.True(t, row.IsDeleted)
	assert.NotNil(t, row.UpdatedAt)
	assert.Equal(t, 2, store.Len())
}

func TestHardDeleteRemovesRow(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 2)

	ctx := context.Background()
	p, err := uow.Products().GetByID(ctx, 1)
	require.NoError(t, err)

	uow.Products().HardDelete(p)
	affected, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, ok := store.Peek(1)
	assert.False(t, ok, "hard delete removes the row entirely")
	assert.Equal(t, 1, store.Len())
}

func TestDeleteRangeSoftDeletesAll(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 3)

	ctx := context.Background()
	all, err := uow.Products().GetAll(ctx)
	require.NoError(t, err)

	uow.Products().DeleteRange(all)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	n, err := uow.Products().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, 3, store.Len())
}

func TestFindAndExists(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 5)

	ctx := context.Background()
	expensive := func(p *domain.Product) bool { return p.Price >= 4 }

	found, err := uow.Products().Find(ctx, expensive)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	ok, err := uow.Products().Exists(ctx, expensive)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uow.Products().Exists(ctx, func(p *domain.Product) bool { return p.Price > 100 })
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := uow.Products().Count(ctx, expensive)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSingleOrDefault(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 3)

	ctx := context.Background()

	p, err := uow.Products().SingleOrDefault(ctx, func(p *domain.Product) bool { return p.Price == 2 })
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Product 002", p.Description)

	p, err = uow.Products().SingleOrDefault(ctx, func(p *domain.Product) bool { return p.Price > 100 })
	require.NoError(t, err)
	assert.Nil(t, p, "no match yields the zero value, not an error")

	_, err = uow.Products().SingleOrDefault(ctx, func(p *domain.Product) bool { return p.Price >= 2 })
	assert.ErrorIs(t, err, ports.ErrAmbiguousMatch)
}

func TestGetPagedNormalizesArguments(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 120)

	ctx := context.Background()

	// (0, 0) behaves as (1, 10).
	page, err := uow.Products().GetPaged(ctx, 0, 0, nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 10, page.PageSize)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(120), page.TotalCount)
	assert.Equal(t, int64(1), page.Items[0].ID)

	// (1, 500) behaves as (1, 100).
	page, err = uow.Products().GetPaged(ctx, 1, 500, nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Items, 100)
	assert.Equal(t, int64(120), page.TotalCount)
}

func TestGetPagedOffsetsAndTotalCount(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 25)

	ctx := context.Background()

	page, err := uow.Products().GetPaged(ctx, 2, 10, nil, nil, true)
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	assert.Equal(t, int64(11), page.Items[0].ID)
	assert.Equal(t, int64(25), page.TotalCount)

	// Last partial page.
	page, err = uow.Products().GetPaged(ctx, 3, 10, nil, nil, true)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	// Beyond the end.
	page, err = uow.Products().GetPaged(ctx, 9, 10, nil, nil, true)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(25), page.TotalCount)
}

func TestGetPagedFilteredTotalIsPreOffset(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 30)

	ctx := context.Background()
	cheap := func(p *domain.Product) bool { return p.Price <= 15 }
	byPriceDesc := func(a, b *domain.Product) bool { return a.Price < b.Price }

	page, err := uow.Products().GetPaged(ctx, 2, 5, cheap, byPriceDesc, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, int64(15), page.TotalCount, "total reflects the filtered, not paginated, set")
	assert.Equal(t, float64(10), page.Items[0].Price, "second page of 15..1 descending starts at 10")
}

func TestQueryThroughRepositoryIsComposable(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 10)

	ctx := context.Background()
	q := uow.Products().Query().
		Where(func(p *domain.Product) bool { return p.Price > 3 }).
		OrderByDescending(func(a, b *domain.Product) bool { return a.Price < b.Price }).
		Take(2)

	items, err := q.ToList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, float64(10), items[0].Price)
	assert.Equal(t, float64(9), items[1].Price)
}

func TestCancelledContextStopsReads(t *testing.T) {
	store, uow := newUnitOfWork(t)
	seedProducts(t, store, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uow.Products().GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = uow.Products().GetByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = uow.Commit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

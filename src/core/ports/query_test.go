package ports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
)

func product(id int64, description string, price float64) *domain.Product {
	p := domain.NewProduct(description, price).Value()
	p.AssignID(id)
	return p
}

func sliceSource(items []*domain.Product, calls *int) ports.Source[*domain.Product] {
	return func(ctx context.Context) ([]*domain.Product, error) {
		if calls != nil {
			*calls++
		}
		return items, nil
	}
}

func TestQueryIsLazy(t *testing.T) {
	calls := 0
	q := ports.NewQuery(sliceSource([]*domain.Product{product(1, "a", 1)}, &calls))

	q = q.Where(func(p *domain.Product) bool { return p.Price > 0 }).Skip(0).Take(5)
	assert.Equal(t, 0, calls, "building a query must not touch the source")

	_, err := q.ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestQueryComposition(t *testing.T) {
	items := []*domain.Product{
		product(1, "apple", 3),
		product(2, "banana", 1),
		product(3, "cherry", 2),
		product(4, "damson", 5),
	}
	base := ports.NewQuery(sliceSource(items, nil)).
		Where(func(p *domain.Product) bool { return p.Price >= 2 })

	// Extending a copy must not affect the base query.
	cheap := base.Where(func(p *domain.Product) bool { return p.Price < 5 })

	baseList, err := base.ToList(context.Background())
	require.NoError(t, err)
	assert.Len(t, baseList, 3)

	cheapList, err := cheap.ToList(context.Background())
	require.NoError(t, err)
	assert.Len(t, cheapList, 2)
}

func TestQueryOrderSkipTake(t *testing.T) {
	items := []*domain.Product{
		product(1, "apple", 3),
		product(2, "banana", 1),
		product(3, "cherry", 2),
	}
	byPrice := func(a, b *domain.Product) bool { return a.Price < b.Price }

	got, err := ports.NewQuery(sliceSource(items, nil)).
		OrderBy(byPrice).
		Skip(1).
		Take(1).
		ToList(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cherry", got[0].Description)

	got, err = ports.NewQuery(sliceSource(items, nil)).
		OrderByDescending(byPrice).
		ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "apple", got[0].Description)
}

func TestQueryCountIgnoresSkipTake(t *testing.T) {
	items := []*domain.Product{
		product(1, "a", 1),
		product(2, "b", 2),
		product(3, "c", 3),
	}

	n, err := ports.NewQuery(sliceSource(items, nil)).Skip(2).Take(1).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestQueryFirst(t *testing.T) {
	items := []*domain.Product{product(1, "a", 1), product(2, "b", 2)}

	got, ok, err := ports.NewQuery(sliceSource(items, nil)).
		Where(func(p *domain.Product) bool { return p.Price > 1 }).
		First(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok, err = ports.NewQuery(sliceSource(items, nil)).
		Where(func(p *domain.Product) bool { return p.Price > 10 }).
		First(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		inPage, inSize   int
		outPage, outSize int
	}{
		{0, 0, 1, 10},
		{-5, -5, 1, 10},
		{1, 500, 1, 100},
		{3, 25, 3, 25},
		{1, 100, 1, 100},
	}
	for _, tc := range cases {
		page, size := ports.NormalizePage(tc.inPage, tc.inSize)
		assert.Equal(t, tc.outPage, page)
		assert.Equal(t, tc.outSize, size)
	}
}

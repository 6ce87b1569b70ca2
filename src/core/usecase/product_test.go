package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/usecase"
	"prodcatalog/src/infra/logger"
	"prodcatalog/src/infra/repo/memory"
)

func newProductService(t *testing.T) (*usecase.ProductService, *memory.Store[*domain.Product]) {
	t.Helper()
	store := memory.NewProductStore()
	factory := memory.NewFactory(store, logger.Discard())
	return usecase.NewProductService(factory, logger.Discard()), store
}

func errorCodes(errs []domain.Error) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code())
	}
	return codes
}

func TestCreateProduct(t *testing.T) {
	svc, store := newProductService(t)

	res := svc.Create(context.Background(), "Widget", 9.99)
	require.True(t, res.IsSuccess())

	view := res.Value()
	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, "Widget", view.Description)
	assert.Equal(t, 9.99, view.Price)
	assert.Equal(t, 1, store.Len())
}

func TestCreateProductAggregatesViolations(t *testing.T) {
	svc, store := newProductService(t)

	res := svc.Create(context.Background(), "", -1)
	require.True(t, res.IsFailure())
	require.Len(t, res.Errors(), 2)
	assert.ElementsMatch(t,
		[]string{domain.CodeProductDescriptionRequired, domain.CodeProductPriceNegative},
		errorCodes(res.Errors()))
	assert.Equal(t, 0, store.Len(), "invalid input never reaches storage")
}

func TestCreateProductValidationMessages(t *testing.T) {
	svc, _ := newProductService(t)

	res := svc.Create(context.Background(), "   ", 1)
	require.True(t, res.IsFailure())
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "Description cannot be null", res.Errors()[0].Description())

	res = svc.Create(context.Background(), "Widget", -0.01)
	require.True(t, res.IsFailure())
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "price must be greater than 0", res.Errors()[0].Description())
}

func TestGetByID(t *testing.T) {
	svc, _ := newProductService(t)

	created := svc.Create(context.Background(), "Widget", 9.99)
	require.True(t, created.IsSuccess())

	res := svc.GetByID(context.Background(), created.Value().ID)
	require.True(t, res.IsSuccess())
	assert.Equal(t, created.Value(), res.Value())
}

func TestGetByIDMissing(t *testing.T) {
	svc, _ := newProductService(t)

	res := svc.GetByID(context.Background(), 9999)
	require.True(t, res.IsFailure())
	require.Len(t, res.Errors(), 1)

	e := res.Errors()[0]
	assert.True(t, e.IsNotFound())
	assert.Equal(t, domain.CodeProductNotFound, e.Code())
	assert.Equal(t, "Product with 9999 not found", e.Description())
}

func TestListPagesAndNormalizes(t *testing.T) {
	svc, _ := newProductService(t)

	ctx := context.Background()
	for i := 0; i < 15; i++ {
		require.True(t, svc.Create(ctx, "Widget", float64(i+1)).IsSuccess())
	}

	res := svc.List(ctx, 2, 10)
	require.True(t, res.IsSuccess())
	page := res.Value()
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(15), page.TotalCount)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 10, page.PageSize)

	// Out-of-range arguments are normalized, not rejected.
	res = svc.List(ctx, 0, 500)
	require.True(t, res.IsSuccess())
	page = res.Value()
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Items, 15)
}

func TestListEmptyCatalog(t *testing.T) {
	svc, _ := newProductService(t)

	res := svc.List(context.Background(), 1, 10)
	require.True(t, res.IsSuccess())
	assert.Empty(t, res.Value().Items)
	assert.Equal(t, int64(0), res.Value().TotalCount)
}

func TestDeleteProduct(t *testing.T) {
	svc, store := newProductService(t)

	ctx := context.Background()
	created := svc.Create(ctx, "Widget", 9.99)
	require.True(t, created.IsSuccess())
	id := created.Value().ID

	res := svc.Delete(ctx, id)
	require.True(t, res.IsSuccess())

	// Deleted products vanish from reads but the row remains.
	missing := svc.GetByID(ctx, id)
	require.True(t, missing.IsFailure())
	assert.True(t, missing.Errors()[0].IsNotFound())
	assert.Equal(t, 1, store.Len())

	// Deleting again is a miss.
	res = svc.Delete(ctx, id)
	require.True(t, res.IsFailure())
	assert.True(t, res.Errors()[0].IsNotFound())
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := newProductService(t)

	res := svc.Delete(context.Background(), 42)
	require.True(t, res.IsFailure())
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "Product with 42 not found", res.Errors()[0].Description())
}

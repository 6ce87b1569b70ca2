// Package usecase contains application services orchestrating domain
// operations through the unit of work.
package usecase

import (
	"context"
	"log/slog"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
)

// Error codes for infrastructure failures surfaced by the service layer.
const (
	CodeStorageFailure = "STORAGE_FAILURE"
)

// ProductView is the outward projection of a product.
type ProductView struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductPage is one page of product views plus the total count of the
// filtered set.
type ProductPage struct {
	Items      []ProductView `json:"items"`
	TotalCount int64         `json:"total_count"`
	PageNumber int           `json:"page_number"`
	PageSize   int           `json:"page_size"`
}

// ProductService orchestrates product creation and retrieval. Each call runs
// in its own unit of work, so change tracking never leaks between requests.
type ProductService struct {
	uowFactory ports.UnitOfWorkFactory
	log        *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(uowFactory ports.UnitOfWorkFactory, log *slog.Logger) *ProductService {
	return &ProductService{uowFactory: uowFactory, log: log}
}

// Create validates and persists a new product. Validation failures come back
// as a failed result carrying every violated invariant; storage is not
// touched in that case.
func (s *ProductService) Create(ctx context.Context, description string, price float64) domain.TypedResult[ProductView] {
	built := domain.NewProduct(description, price)
	if built.IsFailure() {
		return domain.FailWith[ProductView](built.Errors()...)
	}
	product := built.Value()

	uow, err := s.uowFactory.New(ctx)
	if err != nil {
		return s.storageFailure("create product", err)
	}
	defer uow.Close(ctx)

	uow.Products().Add(product)
	if _, err := uow.Commit(ctx); err != nil {
		return s.storageFailure("create product", err)
	}

	s.log.Info("product created", "product_id", product.ID)
	return domain.OkWith(toView(product))
}

// GetByID returns the product projection, or a NotFound failure carrying the
// requested id.
func (s *ProductService) GetByID(ctx context.Context, id int64) domain.TypedResult[ProductView] {
	uow, err := s.uowFactory.New(ctx)
	if err != nil {
		return s.storageFailure("get product", err)
	}
	defer uow.Close(ctx)

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		if domainErr, ok := domain.AsDomainError(err); ok && domainErr.IsNotFound() {
			return domain.FailWith[ProductView](domainErr)
		}
		return s.storageFailure("get product", err)
	}
	return domain.OkWith(toView(product))
}

// List returns one page of products. Page arguments are normalized by the
// repository; out-of-range values never produce unbounded result sets.
func (s *ProductService) List(ctx context.Context, pageNumber, pageSize int) domain.TypedResult[ProductPage] {
	uow, err := s.uowFactory.New(ctx)
	if err != nil {
		return s.storageFailureP("list products", err)
	}
	defer uow.Close(ctx)

	page, err := uow.Products().GetPaged(ctx, pageNumber, pageSize, nil, nil, true)
	if err != nil {
		return s.storageFailureP("list products", err)
	}

	views := make([]ProductView, 0, len(page.Items))
	for _, product := range page.Items {
		views = append(views, toView(product))
	}
	return domain.OkWith(ProductPage{
		Items:      views,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	})
}

// Delete soft-deletes the product: the row stays in storage, reads stop
// returning it. Deleting a missing product is a NotFound failure.
func (s *ProductService) Delete(ctx context.Context, id int64) domain.Result {
	uow, err := s.uowFactory.New(ctx)
	if err != nil {
		return domain.Fail(domain.NewFailureError(CodeStorageFailure, err.Error()))
	}
	defer uow.Close(ctx)

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		if domainErr, ok := domain.AsDomainError(err); ok && domainErr.IsNotFound() {
			return domain.Fail(domainErr)
		}
		return domain.Fail(domain.NewFailureError(CodeStorageFailure, err.Error()))
	}

	uow.Products().Delete(product)
	if _, err := uow.Commit(ctx); err != nil {
		return domain.Fail(domain.NewFailureError(CodeStorageFailure, err.Error()))
	}

	s.log.Info("product deleted", "product_id", id)
	return domain.Ok()
}

func (s *ProductService) storageFailure(op string, err error) domain.TypedResult[ProductView] {
	s.log.Error(op+" failed", "error", err)
	return domain.FailWith[ProductView](domain.NewFailureError(CodeStorageFailure, err.Error()))
}

func (s *ProductService) storageFailureP(op string, err error) domain.TypedResult[ProductPage] {
	s.log.Error(op+" failed", "error", err)
	return domain.FailWith[ProductPage](domain.NewFailureError(CodeStorageFailure, err.Error()))
}

func toView(p *domain.Product) ProductView {
	return ProductView{ID: p.ID, Description: p.Description, Price: p.Price}
}

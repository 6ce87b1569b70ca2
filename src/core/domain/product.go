package domain

import "strings"

// Error codes for product invariants and lookups.
const (
	CodeProductDescriptionRequired = "PRODUCT_DESCRIPTION_REQUIRED"
	CodeProductPriceNegative       = "PRODUCT_PRICE_NEGATIVE"
	CodeProductNotFound            = "PRODUCT_NOT_FOUND"
)

// Product is the catalog aggregate root.
type Product struct {
	EntityBase
	Description string
	Price       float64
}

// IsAggregateRoot marks Product as an aggregate root.
func (*Product) IsAggregateRoot() {}

// NewProduct builds a Product, validating every invariant. It returns either
// a valid instance or the full list of violations; a partially valid product
// is never handed out.
func NewProduct(description string, price float64) TypedResult[*Product] {
	var errs []Error

	if strings.TrimSpace(description) == "" {
		errs = append(errs, NewValidationError(CodeProductDescriptionRequired, "Description cannot be null"))
	} else if len(description) > DescriptionMaxLength {
		errs = append(errs, NewValidationError(CodeProductDescriptionRequired, "Description is too long"))
	}
	if price < 0 {
		errs = append(errs, NewValidationError(CodeProductPriceNegative, "price must be greater than 0"))
	}

	if len(errs) > 0 {
		return FailWith[*Product](errs...)
	}
	return OkWith(&Product{Description: description, Price: price})
}

// Rename replaces the description, re-validating the invariant.
func (p *Product) Rename(description string) Result {
	if strings.TrimSpace(description) == "" {
		return Fail(NewValidationError(CodeProductDescriptionRequired, "Description cannot be null"))
	}
	if len(description) > DescriptionMaxLength {
		return Fail(NewValidationError(CodeProductDescriptionRequired, "Description is too long"))
	}
	p.Description = description
	return Ok()
}

// ChangePrice replaces the price, re-validating the invariant.
func (p *Product) ChangePrice(price float64) Result {
	if price < 0 {
		return Fail(NewValidationError(CodeProductPriceNegative, "price must be greater than 0"))
	}
	p.Price = price
	return Ok()
}

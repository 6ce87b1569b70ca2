// Package dto defines the request payloads of the HTTP API.
package dto

// CreateProductRequest is the payload for POST /api/products.
// Validation of the business invariants happens in the domain factory, so the
// binding only requires the fields to be present.
type CreateProductRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ListProductsQuery captures pagination arguments for GET /api/products.
// Out-of-range values are normalized by the repository.
type ListProductsQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
}

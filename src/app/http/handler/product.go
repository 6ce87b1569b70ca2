// Package handler contains HTTP handlers for the API.
// Handlers are responsible for:
// - Parsing and validating HTTP requests
// - Calling use case methods
// - Converting results to HTTP responses
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"prodcatalog/src/app/http/dto"
	"prodcatalog/src/app/http/response"
	"prodcatalog/src/app/middleware"
	"prodcatalog/src/core/usecase"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	productService *usecase.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *usecase.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "request body must be valid JSON", middleware.GetRequestID(c))
		return
	}

	res := h.productService.Create(c.Request.Context(), req.Description, req.Price)
	if res.IsFailure() {
		response.FromErrors(c, res.Errors(), middleware.GetRequestID(c))
		return
	}
	response.Created(c, res.Value())
}

// GetByID handles GET /api/products/:product_id.
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	res := h.productService.GetByID(c.Request.Context(), id)
	if res.IsFailure() {
		response.FromErrors(c, res.Errors(), middleware.GetRequestID(c))
		return
	}
	response.OK(c, res.Value())
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "INVALID_QUERY", "invalid pagination arguments", middleware.GetRequestID(c))
		return
	}

	res := h.productService.List(c.Request.Context(), q.Page, q.PageSize)
	if res.IsFailure() {
		response.FromErrors(c, res.Errors(), middleware.GetRequestID(c))
		return
	}
	response.OK(c, res.Value())
}

// Delete handles DELETE /api/products/:product_id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	res := h.productService.Delete(c.Request.Context(), id)
	if res.IsFailure() {
		response.FromErrors(c, res.Errors(), middleware.GetRequestID(c))
		return
	}
	response.NoContent(c)
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "INVALID_ID", "invalid product id", middleware.GetRequestID(c))
		return 0, false
	}
	return id, true
}

// Package response defines consistent HTTP response structures.
// All API responses should use these types for consistency.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prodcatalog/src/core/domain"
)

// Success represents a successful response with data.
type Success struct {
	Data any `json:"data"`
}

// Failure represents an error response carrying one or more errors.
type Failure struct {
	Errors    []ErrorDetail `json:"errors"`
	RequestID string        `json:"request_id,omitempty"`
}

// ErrorDetail contains one error.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "PRODUCT_NOT_FOUND")
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Category classifies the error (e.g., "VALIDATION", "NOT_FOUND")
	Category string `json:"category"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Data: data})
}

// Created sends a 201 response with the created resource.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Success{Data: data})
}

// NoContent sends a 204 response with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response with a single validation-style error.
func BadRequest(c *gin.Context, code, message, requestID string) {
	c.JSON(http.StatusBadRequest, Failure{
		Errors:    []ErrorDetail{{Code: code, Message: message, Category: string(domain.CategoryValidation)}},
		RequestID: requestID,
	})
}

// InternalError sends a 500 response without leaking internals.
func InternalError(c *gin.Context, requestID string) {
	c.JSON(http.StatusInternalServerError, Failure{
		Errors: []ErrorDetail{{
			Code:     "INTERNAL_ERROR",
			Message:  "An unexpected error occurred",
			Category: string(domain.CategoryFailure),
		}},
		RequestID: requestID,
	})
}

// FromErrors maps a failed result's error list to an HTTP response. The
// status comes from the most specific category present; the body always
// carries the full list.
func FromErrors(c *gin.Context, errs []domain.Error, requestID string) {
	c.JSON(statusFor(errs), Failure{
		Errors:    details(errs),
		RequestID: requestID,
	})
}

func statusFor(errs []domain.Error) int {
	switch {
	case domain.HasCategory(errs, domain.CategoryValidation):
		return http.StatusBadRequest
	case domain.HasCategory(errs, domain.CategoryNotFound):
		return http.StatusNotFound
	case domain.HasCategory(errs, domain.CategoryConflict):
		return http.StatusConflict
	case domain.HasCategory(errs, domain.CategoryUnauthorized):
		return http.StatusUnauthorized
	case domain.HasCategory(errs, domain.CategoryForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func details(errs []domain.Error) []ErrorDetail {
	out := make([]ErrorDetail, 0, len(errs))
	for _, err := range errs {
		out = append(out, ErrorDetail{
			Code:     err.Code(),
			Message:  err.Description(),
			Category: string(err.Category()),
		})
	}
	return out
}

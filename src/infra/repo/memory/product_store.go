package memory

import (
	"fmt"

	"prodcatalog/src/core/domain"
)

// NewProductStore creates a product store enforcing the same constraints the
// products table does: description present and within its column bound.
func NewProductStore() *Store[*domain.Product] {
	return NewStore(Config[*domain.Product]{
		Clone: func(p *domain.Product) *domain.Product {
			cp := *p
			return &cp
		},
		Restore: func(dst, src *domain.Product) {
			*dst = *src
		},
		Check: func(p *domain.Product) error {
			if p.Description == "" {
				return fmt.Errorf("products: description must not be empty")
			}
			if len(p.Description) > domain.DescriptionMaxLength {
				return fmt.Errorf("products: description exceeds %d characters", domain.DescriptionMaxLength)
			}
			return nil
		},
		NotFound: func(id int64) domain.Error {
			return domain.NewNotFoundError(domain.CodeProductNotFound, fmt.Sprintf("Product with %d not found", id))
		},
	})
}

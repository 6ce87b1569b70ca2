package repo

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"prodcatalog/src/core/domain"
)

// productSchema maps the Product aggregate onto the products table.
func productSchema() Schema[*domain.Product] {
	return Schema[*domain.Product]{
		Table:       "products",
		IDColumn:    "product_id",
		DataColumns: []string{"description", "price"},
		DataValues: func(p *domain.Product) []any {
			return []any{p.Description, p.Price}
		},
		SelectList: "product_id, description, price, created_at, updated_at, is_deleted",
		Scan: func(row pgx.Row) (*domain.Product, error) {
			var p domain.Product
			if err := row.Scan(&p.ID, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt, &p.IsDeleted); err != nil {
				return nil, err
			}
			return &p, nil
		},
		Clone: func(p *domain.Product) *domain.Product {
			cp := *p
			return &cp
		},
		Restore: func(dst, src *domain.Product) {
			*dst = *src
		},
		NotFound: func(id int64) domain.Error {
			return domain.NewNotFoundError(domain.CodeProductNotFound, fmt.Sprintf("Product with %d not found", id))
		},
	}
}

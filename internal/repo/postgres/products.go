package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/storefront/platform/internal/domain/product"
	"github.com/storefront/platform/internal/observability"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProductsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{pool: pool, prom: prom}
}

// List returns one page, newest first. Rows carry no created_at.
func (r *ProductsRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	query := `SELECT id, name, description, price, category, stock
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	args := []any{filter.Limit, filter.Offset()}

	if filter.Category != nil {
		query = `SELECT id, name, description, price, category, stock
		FROM products
		WHERE category = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
		args = []any{*filter.Category, filter.Limit, filter.Offset()}
	}

	output := make([]product.Product, 0, filter.Limit)

	err := r.prom.ObserveDB("products.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p product.Product
			err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock)
			if err != nil {
				return err
			}
			output = append(output, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return output, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id int64) (product.Product, error) {
	var p product.Product

	err := r.prom.ObserveDB("products.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, description, price, category, stock, created_at
			FROM products
			WHERE id = $1`,
			id,
		).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

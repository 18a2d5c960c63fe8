package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Prices cross the wire as text (`::text`) so NUMERIC(10,2) stays exact.

// CatalogRepo reads straight from the pool every time; admin edits must be
// visible on the next browse.
type CatalogRepo struct{ DB *pgxpool.Pool }

func (r *CatalogRepo) AddProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO products (name, price) VALUES ($1, $2::text::numeric) RETURNING id`,
		name, price.StringFixed(2),
	).Scan(&id)
	if err != nil {
		return 0, dbErr("add product", err)
	}
	return id, nil
}

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price::text FROM products ORDER BY id`)
	if err != nil {
		return nil, dbErr("list products", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price); err != nil {
			return nil, dbErr("list products", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, dbErr("list products", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("list products", err)
	}
	return out, nil
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id int64) (Product, error) {
	var (
		p     Product
		price string
	)
	err := r.DB.QueryRow(ctx, `SELECT id, name, price::text FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, dbErr("get product", err)
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return Product{}, dbErr("get product", err)
	}
	return p, nil
}

func (r *CatalogRepo) UpdateProduct(ctx context.Context, id int64, name string, price decimal.Decimal) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE products SET name = $2, price = $3::text::numeric WHERE id = $1`,
		id, name, price.StringFixed(2),
	)
	if err != nil {
		return dbErr("update product", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes the product; cart rows go with it (ON DELETE CASCADE).
func (r *CatalogRepo) DeleteProduct(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return dbErr("delete product", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

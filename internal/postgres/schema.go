package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id    SERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		id         SERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		product_id INTEGER NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL CHECK (quantity > 0)
	)`,
	// required by the ON CONFLICT upsert in CartRepo.AddToCart
	`CREATE UNIQUE INDEX IF NOT EXISTS cart_user_product_uq ON cart (user_id, product_id)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		receipt_id  TEXT NOT NULL UNIQUE,
		user_id     BIGINT NOT NULL,
		customer    TEXT NOT NULL,
		total       NUMERIC(14, 2) NOT NULL,
		ordered_at  TIMESTAMPTZ NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         BIGSERIAL PRIMARY KEY,
		order_id   UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL,
		name       TEXT NOT NULL,
		price      NUMERIC(10, 2) NOT NULL,
		quantity   INTEGER NOT NULL
	)`,
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

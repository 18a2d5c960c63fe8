package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgForeignKeyViolation = "23503"

type CartRepo struct{ DB *pgxpool.Pool }

// AddToCart merges into the existing (user, product) row in one statement,
// so concurrent adds never race into duplicate rows or lost increments.
func (r *CartRepo) AddToCart(ctx context.Context, userID, productID int64, qty int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
	`, userID, productID, qty)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrNotFound
		}
		return dbErr("add to cart", err)
	}
	return nil
}

const selectLines = `
	SELECT c.id, c.product_id, p.name, p.price::text, c.quantity
	FROM cart c
	JOIN products p ON p.id = c.product_id
	WHERE c.user_id = $1
	ORDER BY c.id`

func (r *CartRepo) ListCart(ctx context.Context, userID int64) ([]CartLine, error) {
	rows, err := r.DB.Query(ctx, selectLines, userID)
	if err != nil {
		return nil, dbErr("list cart", err)
	}
	lines, err := scanLines(rows)
	if err != nil {
		return nil, dbErr("list cart", err)
	}
	return lines, nil
}

// RemoveFromCart matches on both id and owner; another user's row is
// reported as ErrNotFound and left alone.
func (r *CartRepo) RemoveFromCart(ctx context.Context, userID, itemID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return dbErr("remove from cart", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepo) ClearCart(ctx context.Context, userID int64) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		return dbErr("clear cart", err)
	}
	return nil
}

// Checkout locks the user's rows (FOR UPDATE), hands them to fn and deletes
// exactly those rows only if fn succeeds. Rows added while fn runs survive.
func (r *CartRepo) Checkout(ctx context.Context, userID int64, fn CheckoutFunc) ([]CartLine, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, dbErr("checkout", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, selectLines+` FOR UPDATE OF c`, userID)
	if err != nil {
		return nil, dbErr("checkout", err)
	}
	lines, err := scanLines(rows)
	if err != nil {
		return nil, dbErr("checkout", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := fn(lines); err != nil {
		return nil, err // rollback via defer
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id = $1 AND id = ANY($2)`, userID, ids); err != nil {
		return nil, dbErr("checkout", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, dbErr("checkout", err)
	}
	return lines, nil
}

func scanLines(rows pgx.Rows) ([]CartLine, error) {
	defer rows.Close()

	var out []CartLine
	for rows.Next() {
		var (
			l     CartLine
			price string
		)
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.Name, &price, &l.Quantity); err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		l.Price = p
		out = append(out, l)
	}
	return out, rows.Err()
}

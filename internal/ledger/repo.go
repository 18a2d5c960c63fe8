package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// RecordOrder stores o with its lines. Idempotent via receipt_id: a receipt
// already on file returns its order id with existed=true and writes nothing.
func (r *Repo) RecordOrder(ctx context.Context, o Order) (orderID string, existed bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", false, fmt.Errorf("record order: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID = uuid.NewString()
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, receipt_id, user_id, customer, total, ordered_at)
		VALUES ($1, $2, $3, $4, $5::text::numeric, $6)
		ON CONFLICT (receipt_id) DO NOTHING
		RETURNING id`,
		orderID, o.ReceiptID, o.UserID, o.Customer, o.Total.StringFixed(2), o.OrderedAt,
	).Scan(&orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `SELECT id FROM orders WHERE receipt_id = $1`, o.ReceiptID).Scan(&orderID)
		if err != nil {
			return "", false, fmt.Errorf("record order: lookup %s: %w", o.ReceiptID, err)
		}
		return orderID, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("record order: insert: %w", err)
	}

	b := &pgx.Batch{}
	for _, l := range o.Lines {
		b.Queue(`
			INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4::text::numeric, $5)`,
			orderID, l.ProductID, l.Name, l.Price.StringFixed(2), l.Quantity)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return "", false, fmt.Errorf("record order: items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", false, fmt.Errorf("record order: commit: %w", err)
	}
	return orderID, false, nil
}

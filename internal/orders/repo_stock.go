package orders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockRepo consumes line-item quantities out of product stock when the
// kitchen starts preparing an order.
type StockRepo struct{ DB *pgxpool.Pool }

// ConsumeAll locks each product row and decrements stock by the ordered
// quantity, flooring at zero. Stock never goes negative even when the
// order over-asks; the kitchen already committed to cooking it.
func (r *StockRepo) ConsumeAll(ctx context.Context, items []LineItem) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		pid, err := strconv.ParseInt(it.ProductID, 10, 64)
		if err != nil {
			continue
		}
		var stock int
		if err := tx.QueryRow(ctx,
			`SELECT stock FROM products WHERE id = $1 FOR UPDATE`, pid).Scan(&stock); err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return fmt.Errorf("lock stock: %w", err)
		}
		next := stock - it.Qty
		if next < 0 {
			next = 0
		}
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = $2 WHERE id = $1`, pid, next); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
	}
	return tx.Commit(ctx)
}

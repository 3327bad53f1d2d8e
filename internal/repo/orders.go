package repo

import (
	"context"
	"time"
)

// InsertOrder creates a new order record.
func (r *PostgresRepository) InsertOrder(ctx context.Context, o Order) (*Order, error) {
	const q = `
INSERT INTO orders (id, merchant_id, client_id, product_id, quantity, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + orderColumns + `;
`
	out, err := scanOrder(r.pool.QueryRow(ctx, q, orderArgs(o)...))
	if err != nil {
		return nil, wrap(err, "insert order")
	}
	return out, nil
}

// ListOrders returns the merchant's orders, newest first.
func (r *PostgresRepository) ListOrders(ctx context.Context, merchantID string) ([]Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE merchant_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, q, merchantID)
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrap(err, "scan order")
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate orders")
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to the given status.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus, updatedAt time.Time) (*Order, error) {
	const q = `
UPDATE orders
SET status = $2, updated_at = $3
WHERE id = $1
RETURNING ` + orderColumns + `;
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(status), stamp(updatedAt)))
	if err != nil {
		return nil, wrap(err, "update order status")
	}
	return o, nil
}

func orderArgs(o Order) []any {
	status := o.Status
	if status == "" {
		status = OrderPending
	}
	return []any{
		idOrNew(o.ID), o.MerchantID, o.ClientID, o.ProductID, o.Quantity, string(status),
		stamp(o.CreatedAt), stamp(o.UpdatedAt),
	}
}

package repo

import (
	"context"
	"database/sql"
	"time"
)

// -- Merchants --

func (r *SQLiteRepository) InsertMerchant(ctx context.Context, m Merchant) (*Merchant, error) {
	const q = `
INSERT INTO merchants (id, merchant_id, name, password, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + merchantColumns + `;
`
	out, err := scanMerchant(r.db.QueryRowContext(ctx, q,
		idOrNew(m.ID), m.MerchantID, m.Name, m.Password, stamp(m.CreatedAt), stamp(m.UpdatedAt)))
	if err != nil {
		return nil, wrap(err, "insert merchant")
	}
	return out, nil
}

func (r *SQLiteRepository) FindMerchantByCredentials(ctx context.Context, merchantID, password string) (*Merchant, error) {
	const q = `SELECT ` + merchantColumns + ` FROM merchants WHERE merchant_id = ? AND password = ? LIMIT 1`
	m, err := scanMerchant(r.db.QueryRowContext(ctx, q, merchantID, password))
	if err != nil {
		return nil, wrap(err, "find merchant by credentials")
	}
	return m, nil
}

func (r *SQLiteRepository) ResolveMerchantID(ctx context.Context, merchantID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM merchants WHERE merchant_id = ? LIMIT 1`, merchantID).Scan(&id)
	if err != nil {
		return "", wrap(err, "resolve merchant id")
	}
	return id, nil
}

// -- Clients --

func (r *SQLiteRepository) InsertClient(ctx context.Context, c Client) (*Client, error) {
	const q = `
INSERT INTO clients (id, merchant_id, client_id, name, password, email, phone, address, city, zip, wilaya,
    payment_mode, credit_limit, fiscal_number, notes, active, show_price, show_quantity, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + clientColumns + `;
`
	out, err := scanClient(r.db.QueryRowContext(ctx, q, clientArgs(c)...))
	if err != nil {
		return nil, wrap(err, "insert client")
	}
	return out, nil
}

func (r *SQLiteRepository) FindClientByCredentials(ctx context.Context, clientID, password, merchantID string) (*Client, error) {
	const q = `
SELECT ` + clientColumns + `
FROM clients
WHERE client_id = ? AND password = ? AND merchant_id = ?
LIMIT 1;
`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, clientID, password, merchantID))
	if err != nil {
		return nil, wrap(err, "find client by credentials")
	}
	return c, nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context, merchantID string) ([]Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE merchant_id = ? ORDER BY created_at DESC`
	return liteList(ctx, r.db, q, merchantID, scanClient, "clients")
}

func (r *SQLiteRepository) GetClientByID(ctx context.Context, id string) (*Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if err != nil {
		return nil, wrap(err, "get client")
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateClient(ctx context.Context, id string, upd ClientUpdate) (*Client, error) {
	b := &setBuilder{placeholder: litePlaceholder}
	clientSet(b, upd)
	q := `UPDATE clients SET ` + b.clause() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + clientColumns
	c, err := scanClient(r.db.QueryRowContext(ctx, q, b.args...))
	if err != nil {
		return nil, wrap(err, "update client")
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteClient(ctx context.Context, id string) error {
	return liteDelete(ctx, r.db, `DELETE FROM clients WHERE id = ?`, id, "delete client")
}

// -- Products --

func (r *SQLiteRepository) InsertProduct(ctx context.Context, p Product) (*Product, error) {
	const q = `
INSERT INTO products (id, merchant_id, name, price, description, image_data, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + productColumns + `;
`
	out, err := scanProduct(r.db.QueryRowContext(ctx, q, productArgs(p)...))
	if err != nil {
		return nil, wrap(err, "insert product")
	}
	return out, nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context, merchantID string) ([]Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE merchant_id = ? ORDER BY created_at DESC`
	return liteList(ctx, r.db, q, merchantID, scanProduct, "products")
}

func (r *SQLiteRepository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return nil, wrap(err, "get product")
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error) {
	b := &setBuilder{placeholder: litePlaceholder}
	productSet(b, upd)
	q := `UPDATE products SET ` + b.clause() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, b.args...))
	if err != nil {
		return nil, wrap(err, "update product")
	}
	return p, nil
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id string) error {
	return liteDelete(ctx, r.db, `DELETE FROM products WHERE id = ?`, id, "delete product")
}

// -- Orders --

func (r *SQLiteRepository) InsertOrder(ctx context.Context, o Order) (*Order, error) {
	const q = `
INSERT INTO orders (id, merchant_id, client_id, product_id, quantity, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + orderColumns + `;
`
	out, err := scanOrder(r.db.QueryRowContext(ctx, q, orderArgs(o)...))
	if err != nil {
		return nil, wrap(err, "insert order")
	}
	return out, nil
}

func (r *SQLiteRepository) ListOrders(ctx context.Context, merchantID string) ([]Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE merchant_id = ? ORDER BY created_at DESC`
	return liteList(ctx, r.db, q, merchantID, scanOrder, "orders")
}

func (r *SQLiteRepository) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus, updatedAt time.Time) (*Order, error) {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, string(status), stamp(updatedAt), id))
	if err != nil {
		return nil, wrap(err, "update order status")
	}
	return o, nil
}

// -- Settings --

func (r *SQLiteRepository) GetMerchantSettings(ctx context.Context, merchantID string) (*MerchantSettings, error) {
	const q = `SELECT ` + settingsColumns + ` FROM merchant_settings WHERE merchant_id = ?`
	s, err := scanSettings(r.db.QueryRowContext(ctx, q, merchantID))
	if err != nil {
		return nil, wrap(err, "get merchant settings")
	}
	return s, nil
}

func (r *SQLiteRepository) UpsertMerchantSettings(ctx context.Context, s MerchantSettings) error {
	args := append([]any{idOrNew(s.ID)}, settingsArgs(stampSettings(s))...)
	if _, err := r.db.ExecContext(ctx, upsertSettingsQuery(litePlaceholder), args...); err != nil {
		return wrap(err, "upsert merchant settings")
	}
	return nil
}

// -- helpers --

func liteList[T any](ctx context.Context, db *sql.DB, q, merchantID string, scan func(scanner) (*T, error), what string) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, merchantID)
	if err != nil {
		return nil, wrap(err, "list "+what)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, wrap(err, "scan "+what)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate "+what)
	}
	return out, nil
}

func liteDelete(ctx context.Context, db *sql.DB, q, id, op string) error {
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return wrap(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(err, op)
	}
	return expectOne(n, op)
}

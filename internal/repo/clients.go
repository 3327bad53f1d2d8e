package repo

import (
	"context"
)

// InsertClient creates a client under its merchant.
func (r *PostgresRepository) InsertClient(ctx context.Context, c Client) (*Client, error) {
	const q = `
INSERT INTO clients (id, merchant_id, client_id, name, password, email, phone, address, city, zip, wilaya,
    payment_mode, credit_limit, fiscal_number, notes, active, show_price, show_quantity, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING ` + clientColumns + `;
`
	out, err := scanClient(r.pool.QueryRow(ctx, q, clientArgs(c)...))
	if err != nil {
		return nil, wrap(err, "insert client")
	}
	return out, nil
}

// FindClientByCredentials matches a client by handle and password within one merchant.
func (r *PostgresRepository) FindClientByCredentials(ctx context.Context, clientID, password, merchantID string) (*Client, error) {
	const q = `
SELECT ` + clientColumns + `
FROM clients
WHERE client_id = $1 AND password = $2 AND merchant_id = $3
LIMIT 1;
`
	c, err := scanClient(r.pool.QueryRow(ctx, q, clientID, password, merchantID))
	if err != nil {
		return nil, wrap(err, "find client by credentials")
	}
	return c, nil
}

// ListClients returns the merchant's clients, newest first.
func (r *PostgresRepository) ListClients(ctx context.Context, merchantID string) ([]Client, error) {
	const q = `
SELECT ` + clientColumns + `
FROM clients
WHERE merchant_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, q, merchantID)
	if err != nil {
		return nil, wrap(err, "list clients")
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap(err, "scan client")
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate clients")
	}
	return clients, nil
}

// GetClientByID fetches a single client.
func (r *PostgresRepository) GetClientByID(ctx context.Context, id string) (*Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, wrap(err, "get client")
	}
	return c, nil
}

// UpdateClient applies the non-nil fields of upd.
func (r *PostgresRepository) UpdateClient(ctx context.Context, id string, upd ClientUpdate) (*Client, error) {
	b := &setBuilder{placeholder: pgPlaceholder}
	clientSet(b, upd)
	q := `UPDATE clients SET ` + b.clause() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + clientColumns
	c, err := scanClient(r.pool.QueryRow(ctx, q, b.args...))
	if err != nil {
		return nil, wrap(err, "update client")
	}
	return c, nil
}

// DeleteClient removes a client and, through cascading keys, their orders.
func (r *PostgresRepository) DeleteClient(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete client")
	}
	return expectOne(ct.RowsAffected(), "delete client")
}

func clientArgs(c Client) []any {
	return []any{
		idOrNew(c.ID), c.MerchantID, c.ClientID, c.Name, c.Password, c.Email, c.Phone, c.Address, c.City,
		c.Zip, c.Wilaya, c.PaymentMode, c.CreditLimit, c.FiscalNumber, c.Notes, c.Active, c.ShowPrice,
		c.ShowQuantity, stamp(c.CreatedAt), stamp(c.UpdatedAt),
	}
}

package repo

import (
	"context"
)

// InsertProduct creates a product in the merchant's catalog.
func (r *PostgresRepository) InsertProduct(ctx context.Context, p Product) (*Product, error) {
	const q = `
INSERT INTO products (id, merchant_id, name, price, description, image_data, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns + `;
`
	out, err := scanProduct(r.pool.QueryRow(ctx, q, productArgs(p)...))
	if err != nil {
		return nil, wrap(err, "insert product")
	}
	return out, nil
}

// ListProducts returns every product of the merchant, active or not, newest first.
func (r *PostgresRepository) ListProducts(ctx context.Context, merchantID string) ([]Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE merchant_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, q, merchantID)
	if err != nil {
		return nil, wrap(err, "list products")
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrap(err, "scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate products")
	}
	return products, nil
}

// GetProductByID fetches a single product.
func (r *PostgresRepository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, wrap(err, "get product")
	}
	return p, nil
}

// UpdateProduct applies the non-nil fields of upd.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error) {
	b := &setBuilder{placeholder: pgPlaceholder}
	productSet(b, upd)
	q := `UPDATE products SET ` + b.clause() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q, b.args...))
	if err != nil {
		return nil, wrap(err, "update product")
	}
	return p, nil
}

// DeleteProduct removes a product.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete product")
	}
	return expectOne(ct.RowsAffected(), "delete product")
}

func productArgs(p Product) []any {
	return []any{
		idOrNew(p.ID), p.MerchantID, p.Name, p.Price, p.Description, p.ImageData, p.Active,
		stamp(p.CreatedAt), stamp(p.UpdatedAt),
	}
}

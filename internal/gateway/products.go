package gateway

import (
	"context"

	"tradepro/internal/repo"
)

func (g *Gateway) CreateProduct(ctx context.Context, p repo.Product) *repo.Product {
	now := g.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now
	out, _ := call(ctx, g, "create_product", []any{"merchant", p.MerchantID, "name", p.Name},
		func(ctx context.Context) (*repo.Product, error) {
			return g.repo.InsertProduct(ctx, p)
		})
	return out
}

// ListProducts returns all of the merchant's products, inactive included, newest first.
func (g *Gateway) ListProducts(ctx context.Context, merchantID string) []repo.Product {
	out, _ := call(ctx, g, "list_products", []any{"merchant", merchantID},
		func(ctx context.Context) ([]repo.Product, error) {
			return g.repo.ListProducts(ctx, merchantID)
		})
	return nonNil(out)
}

func (g *Gateway) GetProductByID(ctx context.Context, id string) *repo.Product {
	out, _ := call(ctx, g, "get_product", []any{"id", id},
		func(ctx context.Context) (*repo.Product, error) {
			return g.repo.GetProductByID(ctx, id)
		})
	return out
}

func (g *Gateway) UpdateProduct(ctx context.Context, id string, upd repo.ProductUpdate) *repo.Product {
	upd.UpdatedAt = g.timestamp()
	out, _ := call(ctx, g, "update_product", []any{"id", id},
		func(ctx context.Context) (*repo.Product, error) {
			return g.repo.UpdateProduct(ctx, id, upd)
		})
	return out
}

func (g *Gateway) DeleteProduct(ctx context.Context, id string) bool {
	_, ok := call(ctx, g, "delete_product", []any{"id", id},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, g.repo.DeleteProduct(ctx, id)
		})
	return ok
}

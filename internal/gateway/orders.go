package gateway

import (
	"context"

	"tradepro/internal/repo"
)

// CreateOrder inserts an order. An empty status becomes pending.
func (g *Gateway) CreateOrder(ctx context.Context, o repo.Order) *repo.Order {
	now := g.timestamp()
	o.CreatedAt, o.UpdatedAt = now, now
	if o.Status == "" {
		o.Status = repo.OrderPending
	}
	out, _ := call(ctx, g, "create_order",
		[]any{"merchant", o.MerchantID, "client", o.ClientID, "product", o.ProductID, "quantity", o.Quantity},
		func(ctx context.Context) (*repo.Order, error) {
			return g.repo.InsertOrder(ctx, o)
		})
	return out
}

func (g *Gateway) ListOrders(ctx context.Context, merchantID string) []repo.Order {
	out, _ := call(ctx, g, "list_orders", []any{"merchant", merchantID},
		func(ctx context.Context) ([]repo.Order, error) {
			return g.repo.ListOrders(ctx, merchantID)
		})
	return nonNil(out)
}

func (g *Gateway) UpdateOrderStatus(ctx context.Context, id string, status repo.OrderStatus) *repo.Order {
	out, _ := call(ctx, g, "update_order_status", []any{"id", id, "status", status},
		func(ctx context.Context) (*repo.Order, error) {
			return g.repo.UpdateOrderStatus(ctx, id, status, g.timestamp())
		})
	return out
}

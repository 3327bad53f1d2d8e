package gateway

import (
	"context"

	"tradepro/internal/repo"
)

func (g *Gateway) CreateClient(ctx context.Context, c repo.Client) *repo.Client {
	now := g.timestamp()
	c.CreatedAt, c.UpdatedAt = now, now
	out, _ := call(ctx, g, "create_client", []any{"merchant", c.MerchantID, "client_id", c.ClientID},
		func(ctx context.Context) (*repo.Client, error) {
			return g.repo.InsertClient(ctx, c)
		})
	return out
}

// ListClients returns the merchant's clients newest first, or an empty slice.
func (g *Gateway) ListClients(ctx context.Context, merchantID string) []repo.Client {
	out, _ := call(ctx, g, "list_clients", []any{"merchant", merchantID},
		func(ctx context.Context) ([]repo.Client, error) {
			return g.repo.ListClients(ctx, merchantID)
		})
	return nonNil(out)
}

func (g *Gateway) GetClientByID(ctx context.Context, id string) *repo.Client {
	out, _ := call(ctx, g, "get_client", []any{"id", id},
		func(ctx context.Context) (*repo.Client, error) {
			return g.repo.GetClientByID(ctx, id)
		})
	return out
}

// UpdateClient sends the non-nil fields of upd and always stamps updated_at.
func (g *Gateway) UpdateClient(ctx context.Context, id string, upd repo.ClientUpdate) *repo.Client {
	upd.UpdatedAt = g.timestamp()
	out, _ := call(ctx, g, "update_client", []any{"id", id},
		func(ctx context.Context) (*repo.Client, error) {
			return g.repo.UpdateClient(ctx, id, upd)
		})
	return out
}

// DeleteClient reports whether a client row was removed.
func (g *Gateway) DeleteClient(ctx context.Context, id string) bool {
	_, ok := call(ctx, g, "delete_client", []any{"id", id},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, g.repo.DeleteClient(ctx, id)
		})
	return ok
}

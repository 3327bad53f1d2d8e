package gateway

import (
	"context"

	"tradepro/internal/repo"
)

// AuthenticateMerchant returns the merchant whose handle and password match, or nil.
func (g *Gateway) AuthenticateMerchant(ctx context.Context, handle, password string) *repo.Merchant {
	m, _ := call(ctx, g, "authenticate_merchant", []any{"merchant_id", handle},
		func(ctx context.Context) (*repo.Merchant, error) {
			return g.repo.FindMerchantByCredentials(ctx, handle, password)
		})
	return m
}

// AuthenticateClient resolves merchantHandle to its internal id, then matches the
// client credentials within that merchant. An unknown merchant short-circuits to nil.
func (g *Gateway) AuthenticateClient(ctx context.Context, clientHandle, password, merchantHandle string) *repo.Client {
	merchantID, ok := call(ctx, g, "resolve_merchant", []any{"merchant_id", merchantHandle},
		func(ctx context.Context) (string, error) {
			return g.repo.ResolveMerchantID(ctx, merchantHandle)
		})
	if !ok {
		return nil
	}
	c, _ := call(ctx, g, "authenticate_client", []any{"client_id", clientHandle, "merchant", merchantID},
		func(ctx context.Context) (*repo.Client, error) {
			return g.repo.FindClientByCredentials(ctx, clientHandle, password, merchantID)
		})
	return c
}

// CreateMerchant inserts a merchant account.
func (g *Gateway) CreateMerchant(ctx context.Context, m repo.Merchant) *repo.Merchant {
	now := g.timestamp()
	m.CreatedAt, m.UpdatedAt = now, now
	out, _ := call(ctx, g, "create_merchant", []any{"merchant_id", m.MerchantID},
		func(ctx context.Context) (*repo.Merchant, error) {
			return g.repo.InsertMerchant(ctx, m)
		})
	return out
}

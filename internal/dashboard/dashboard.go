// Package dashboard holds the application logic behind the merchant and client screens.
package dashboard

import (
	"context"
	"errors"

	"tradepro/internal/gateway"
	"tradepro/internal/notify"
	"tradepro/internal/repo"
)

var (
	// ErrNotSaved means the gateway refused the write; details are in the gateway log.
	ErrNotSaved = errors.New("could not be saved")
	// ErrNotOwned means the record belongs to another merchant or no longer exists.
	ErrNotOwned = errors.New("record not found for this merchant")
)

// MerchantGateway is the part of the gateway used by the merchant screens.
type MerchantGateway interface {
	ListProducts(ctx context.Context, merchantID string) []repo.Product
	ListClients(ctx context.Context, merchantID string) []repo.Client
	ListOrders(ctx context.Context, merchantID string) []repo.Order
	GetProductByID(ctx context.Context, id string) *repo.Product
	GetClientByID(ctx context.Context, id string) *repo.Client
	CreateProduct(ctx context.Context, p repo.Product) *repo.Product
	UpdateProduct(ctx context.Context, id string, upd repo.ProductUpdate) *repo.Product
	DeleteProduct(ctx context.Context, id string) bool
	CreateClient(ctx context.Context, c repo.Client) *repo.Client
	UpdateClient(ctx context.Context, id string, upd repo.ClientUpdate) *repo.Client
	DeleteClient(ctx context.Context, id string) bool
	UpdateOrderStatus(ctx context.Context, id string, status repo.OrderStatus) *repo.Order
	GetMerchantSettings(ctx context.Context, merchantID string) *repo.MerchantSettings
	SaveMerchantSettings(ctx context.Context, s repo.MerchantSettings) bool
	UploadLogo(ctx context.Context, merchantID string, file gateway.LogoFile) *gateway.LogoUpload
}

// ClientGateway is the part of the gateway used by the client screens.
type ClientGateway interface {
	ListProducts(ctx context.Context, merchantID string) []repo.Product
	ListOrders(ctx context.Context, merchantID string) []repo.Order
	CreateOrder(ctx context.Context, o repo.Order) *repo.Order
}

// OrderNotifier is told about orders a client has just placed.
type OrderNotifier interface {
	OrdersPlaced(ctx context.Context, client repo.Client, orders []notify.PlacedOrder)
}

var (
	_ MerchantGateway = (*gateway.Gateway)(nil)
	_ ClientGateway   = (*gateway.Gateway)(nil)
	_ OrderNotifier   = (*notify.WhatsApp)(nil)
)

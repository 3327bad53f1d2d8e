package repo

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
type Repository interface {
	// Lifecycle
	Close()
	Ping(ctx context.Context) error
	RunMigrations(ctx context.Context) error

	// Merchants
	InsertMerchant(ctx context.Context, m Merchant) (*Merchant, error)
	FindMerchantByCredentials(ctx context.Context, merchantID, password string) (*Merchant, error)
	ResolveMerchantID(ctx context.Context, merchantID string) (string, error)

	// Clients
	InsertClient(ctx context.Context, c Client) (*Client, error)
	FindClientByCredentials(ctx context.Context, clientID, password, merchantID string) (*Client, error)
	ListClients(ctx context.Context, merchantID string) ([]Client, error)
	GetClientByID(ctx context.Context, id string) (*Client, error)
	UpdateClient(ctx context.Context, id string, upd ClientUpdate) (*Client, error)
	DeleteClient(ctx context.Context, id string) error

	// Products
	InsertProduct(ctx context.Context, p Product) (*Product, error)
	ListProducts(ctx context.Context, merchantID string) ([]Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Orders
	InsertOrder(ctx context.Context, o Order) (*Order, error)
	ListOrders(ctx context.Context, merchantID string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus, updatedAt time.Time) (*Order, error)

	// Settings
	GetMerchantSettings(ctx context.Context, merchantID string) (*MerchantSettings, error)
	UpsertMerchantSettings(ctx context.Context, s MerchantSettings) error
}

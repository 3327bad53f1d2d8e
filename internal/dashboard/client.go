package dashboard

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"tradepro/internal/notify"
	"tradepro/internal/repo"
	"tradepro/internal/session"
)

// ClientService backs the client storefront.
type ClientService struct {
	gw       ClientGateway
	notifier OrderNotifier
	logger   *slog.Logger
}

// NewClientService builds the storefront service. notifier may be nil.
func NewClientService(gw ClientGateway, notifier OrderNotifier, logger *slog.Logger) *ClientService {
	return &ClientService{gw: gw, notifier: notifier, logger: logger.With("component", "dashboard_client")}
}

// CatalogItem is a product as a client may see it.
type CatalogItem struct {
	Product      repo.Product `json:"product"`
	PriceVisible bool         `json:"price_visible"`
}

// Catalog lists the merchant's active products. Prices are zeroed for clients
// whose show_price flag is off.
func (s *ClientService) Catalog(ctx context.Context, p session.ClientPrincipal) []CatalogItem {
	products := s.gw.ListProducts(ctx, p.TenantID())
	items := make([]CatalogItem, 0, len(products))
	for _, prod := range products {
		if !prod.Active {
			continue
		}
		item := CatalogItem{Product: prod, PriceVisible: p.Client.ShowPrice}
		if !item.PriceVisible {
			item.Product.Price = decimal.Zero
		}
		items = append(items, item)
	}
	return items
}

// MyOrders returns this client's orders, newest first.
func (s *ClientService) MyOrders(ctx context.Context, p session.ClientPrincipal) []repo.Order {
	all := s.gw.ListOrders(ctx, p.TenantID())
	mine := make([]repo.Order, 0, len(all))
	for _, o := range all {
		if o.ClientID == p.Client.ID {
			mine = append(mine, o)
		}
	}
	return mine
}

// Checkout places one pending order per cart line that names an active product
// with a positive quantity. Placed lines leave the cart; the rest stay.
func (s *ClientService) Checkout(ctx context.Context, p session.ClientPrincipal, cart *Cart) []repo.Order {
	active := make(map[string]repo.Product)
	for _, prod := range s.gw.ListProducts(ctx, p.TenantID()) {
		if prod.Active {
			active[prod.ID] = prod
		}
	}

	var (
		created []repo.Order
		placed  []notify.PlacedOrder
	)
	for _, line := range cart.Lines() {
		prod, ok := active[line.ProductID]
		if !ok || line.Quantity <= 0 {
			s.logger.Warn("skipping cart line", "product", line.ProductID, "quantity", line.Quantity)
			continue
		}
		o := s.gw.CreateOrder(ctx, repo.Order{
			MerchantID: p.TenantID(),
			ClientID:   p.Client.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			Status:     repo.OrderPending,
		})
		if o == nil {
			continue
		}
		cart.Remove(line.ProductID)
		created = append(created, *o)
		placed = append(placed, notify.PlacedOrder{Order: *o, ProductName: prod.Name})
	}

	if len(placed) > 0 && s.notifier != nil {
		s.notifier.OrdersPlaced(ctx, p.Client, placed)
	}
	return created
}

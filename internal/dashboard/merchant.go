package dashboard

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tradepro/internal/repo"
)

// MerchantService backs the merchant dashboard.
type MerchantService struct {
	gw     MerchantGateway
	logger *slog.Logger
}

func NewMerchantService(gw MerchantGateway, logger *slog.Logger) *MerchantService {
	return &MerchantService{gw: gw, logger: logger.With("component", "dashboard_merchant")}
}

// Stats are the headline numbers of the merchant dashboard.
type Stats struct {
	Products      int             `json:"products"`
	Clients       int             `json:"clients"`
	Orders        int             `json:"orders"`
	PendingOrders int             `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Overview is everything the merchant dashboard shows on load.
type Overview struct {
	Products []repo.Product `json:"products"`
	Clients  []repo.Client  `json:"clients"`
	Orders   []repo.Order   `json:"orders"`
	Stats    Stats          `json:"stats"`
}

// Overview loads products, clients and orders concurrently and computes the stats.
func (s *MerchantService) Overview(ctx context.Context, merchantID string) Overview {
	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ov.Products = s.gw.ListProducts(gctx, merchantID)
		return nil
	})
	g.Go(func() error {
		ov.Clients = s.gw.ListClients(gctx, merchantID)
		return nil
	})
	g.Go(func() error {
		ov.Orders = s.gw.ListOrders(gctx, merchantID)
		return nil
	})
	_ = g.Wait()

	ov.Stats = Stats{
		Products: len(ov.Products),
		Clients:  len(ov.Clients),
		Orders:   len(ov.Orders),
		Revenue:  Revenue(ov.Orders, ov.Products),
	}
	for _, o := range ov.Orders {
		if o.Status == repo.OrderPending {
			ov.Stats.PendingOrders++
		}
	}
	return ov
}

// Revenue sums quantity × price over orders. Orders whose product is unknown count as zero.
func Revenue(orders []repo.Order, products []repo.Product) decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	total := decimal.Zero
	for _, o := range orders {
		if price, ok := prices[o.ProductID]; ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(o.Quantity))))
		}
	}
	return total
}

// SaveProduct validates form and creates a product, or updates existingID when set.
func (s *MerchantService) SaveProduct(ctx context.Context, merchantID, existingID string, form ProductForm) (*repo.Product, error) {
	form.normalise()
	if err := form.validate(); err != nil {
		return nil, err
	}
	imageData, err := form.imageDataURL()
	if err != nil {
		return nil, err
	}

	if existingID == "" {
		p := s.gw.CreateProduct(ctx, repo.Product{
			MerchantID:  merchantID,
			Name:        form.Name,
			Price:       form.Price,
			Description: optional(form.Description),
			ImageData:   imageData,
			Active:      form.Active,
		})
		if p == nil {
			return nil, ErrNotSaved
		}
		return p, nil
	}

	if !s.ownsProduct(ctx, merchantID, existingID) {
		return nil, ErrNotOwned
	}
	upd := repo.ProductUpdate{
		Name:        &form.Name,
		Price:       &form.Price,
		Description: optional(form.Description),
		ImageData:   imageData,
		Active:      &form.Active,
	}
	p := s.gw.UpdateProduct(ctx, existingID, upd)
	if p == nil {
		return nil, ErrNotSaved
	}
	return p, nil
}

// SaveClient validates form and creates a client, or updates existingID when set.
// A password is required on create and left unchanged on update when blank.
func (s *MerchantService) SaveClient(ctx context.Context, merchantID, existingID string, form ClientForm) (*repo.Client, error) {
	form.normalise()
	if err := form.validate(existingID == ""); err != nil {
		return nil, err
	}

	if existingID == "" {
		c := s.gw.CreateClient(ctx, form.toClient(merchantID))
		if c == nil {
			return nil, ErrNotSaved
		}
		return c, nil
	}

	if !s.ownsClient(ctx, merchantID, existingID) {
		return nil, ErrNotOwned
	}
	c := s.gw.UpdateClient(ctx, existingID, form.toUpdate())
	if c == nil {
		return nil, ErrNotSaved
	}
	return c, nil
}

// RemoveProduct deletes one of the merchant's products.
func (s *MerchantService) RemoveProduct(ctx context.Context, merchantID, id string) bool {
	return s.ownsProduct(ctx, merchantID, id) && s.gw.DeleteProduct(ctx, id)
}

// RemoveClient deletes one of the merchant's clients along with their orders.
func (s *MerchantService) RemoveClient(ctx context.Context, merchantID, id string) bool {
	return s.ownsClient(ctx, merchantID, id) && s.gw.DeleteClient(ctx, id)
}

// MarkDelivered moves an order to delivered.
func (s *MerchantService) MarkDelivered(ctx context.Context, orderID string) *repo.Order {
	return s.gw.UpdateOrderStatus(ctx, orderID, repo.OrderDelivered)
}

func (s *MerchantService) ownsProduct(ctx context.Context, merchantID, id string) bool {
	p := s.gw.GetProductByID(ctx, id)
	if p == nil || p.MerchantID != merchantID {
		s.logger.Warn("product not owned by merchant", "merchant", merchantID, "product", id)
		return false
	}
	return true
}

func (s *MerchantService) ownsClient(ctx context.Context, merchantID, id string) bool {
	c := s.gw.GetClientByID(ctx, id)
	if c == nil || c.MerchantID != merchantID {
		s.logger.Warn("client not owned by merchant", "merchant", merchantID, "client", id)
		return false
	}
	return true
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

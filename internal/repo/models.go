package repo

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderDelivered
}

// Merchant represents the merchants table row.
type Merchant struct {
	ID         string    `json:"id"`
	MerchantID string    `json:"merchant_id"`
	Name       string    `json:"name"`
	Password   string    `json:"password,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LogValue keeps the password out of log records.
func (m Merchant) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", m.ID),
		slog.String("merchant_id", m.MerchantID),
		slog.String("name", m.Name),
	)
}

// Client represents the clients table row.
type Client struct {
	ID           string           `json:"id"`
	MerchantID   string           `json:"merchant_id"`
	ClientID     string           `json:"client_id"`
	Name         string           `json:"name"`
	Password     string           `json:"password,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	City         *string          `json:"city,omitempty"`
	Zip          *string          `json:"zip,omitempty"`
	Wilaya       *string          `json:"wilaya,omitempty"`
	PaymentMode  *string          `json:"payment_mode,omitempty"`
	CreditLimit  *decimal.Decimal `json:"credit_limit,omitempty"`
	FiscalNumber *string          `json:"fiscal_number,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	Active       bool             `json:"active"`
	ShowPrice    bool             `json:"show_price"`
	ShowQuantity bool             `json:"show_quantity"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// LogValue keeps the password out of log records.
func (c Client) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", c.ID),
		slog.String("merchant_id", c.MerchantID),
		slog.String("client_id", c.ClientID),
		slog.String("name", c.Name),
	)
}

// Product represents the products table row.
type Product struct {
	ID          string          `json:"id"`
	MerchantID  string          `json:"merchant_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	ImageData   *string         `json:"image_data,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Order represents a row in orders table.
type Order struct {
	ID         string      `json:"id"`
	MerchantID string      `json:"merchant_id"`
	ClientID   string      `json:"client_id"`
	ProductID  string      `json:"product_id"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// MerchantSettings is the per-merchant configuration bag, upserted wholesale.
type MerchantSettings struct {
	ID                   string    `json:"id"`
	MerchantID           string    `json:"merchant_id"`
	CompanyName          string    `json:"company_name"`
	CompanyEmail         string    `json:"company_email"`
	CompanyPhone         string    `json:"company_phone"`
	CompanyAddress       string    `json:"company_address"`
	CompanyCity          string    `json:"company_city"`
	CompanyCountry       string    `json:"company_country"`
	CompanyWebsite       string    `json:"company_website"`
	TaxID                string    `json:"tax_id"`
	TradeRegistry        string    `json:"trade_registry"`
	BankName             string    `json:"bank_name"`
	BankAccount          string    `json:"bank_account"`
	Currency             string    `json:"currency"`
	PaymentTerms         int       `json:"payment_terms"`
	InvoicePrefix        string    `json:"invoice_prefix"`
	InvoiceStartNumber   int       `json:"invoice_start_number"`
	LogoURL              string    `json:"logo_url"`
	ThemeColor           string    `json:"theme_color"`
	Language             string    `json:"language"`
	Timezone             string    `json:"timezone"`
	NotificationEmail    bool      `json:"notification_email"`
	NotificationSMS      bool      `json:"notification_sms"`
	NotificationWhatsApp bool      `json:"notification_whatsapp"`
	AutoInvoice          bool      `json:"auto_invoice"`
	AutoReminder         bool      `json:"auto_reminder"`
	ReminderDays         int       `json:"reminder_days"`
	Signature            string    `json:"signature"`
	Notes                string    `json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProductUpdate carries the fields of a partial product update. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	ImageData   *string
	Active      *bool
	UpdatedAt   time.Time
}

// ClientUpdate carries the fields of a partial client update. Nil fields are left untouched.
type ClientUpdate struct {
	ClientID     *string
	Name         *string
	Password     *string
	Email        *string
	Phone        *string
	Address      *string
	City         *string
	Zip          *string
	Wilaya       *string
	PaymentMode  *string
	CreditLimit  *decimal.Decimal
	FiscalNumber *string
	Notes        *string
	Active       *bool
	ShowPrice    *bool
	ShowQuantity *bool
	UpdatedAt    time.Time
}

package repo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	merchantColumns = `id, merchant_id, name, password, created_at, updated_at`

	clientColumns = `id, merchant_id, client_id, name, password, email, phone, address, city, zip, wilaya,
    payment_mode, credit_limit, fiscal_number, notes, active, show_price, show_quantity, created_at, updated_at`

	productColumns = `id, merchant_id, name, price, description, image_data, active, created_at, updated_at`

	orderColumns = `id, merchant_id, client_id, product_id, quantity, status, created_at, updated_at`

	settingsColumns = `id, merchant_id, company_name, company_email, company_phone, company_address, company_city,
    company_country, company_website, tax_id, trade_registry, bank_name, bank_account, currency, payment_terms,
    invoice_prefix, invoice_start_number, logo_url, theme_color, language, timezone, notification_email,
    notification_sms, notification_whatsapp, auto_invoice, auto_reminder, reminder_days, signature, notes,
    created_at, updated_at`
)

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMerchant(s scanner) (*Merchant, error) {
	var m Merchant
	if err := s.Scan(&m.ID, &m.MerchantID, &m.Name, &m.Password, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanClient(s scanner) (*Client, error) {
	var (
		c      Client
		credit decimal.NullDecimal
	)
	err := s.Scan(&c.ID, &c.MerchantID, &c.ClientID, &c.Name, &c.Password, &c.Email, &c.Phone, &c.Address,
		&c.City, &c.Zip, &c.Wilaya, &c.PaymentMode, &credit, &c.FiscalNumber, &c.Notes, &c.Active,
		&c.ShowPrice, &c.ShowQuantity, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if credit.Valid {
		c.CreditLimit = &credit.Decimal
	}
	return &c, nil
}

func scanProduct(s scanner) (*Product, error) {
	var p Product
	err := s.Scan(&p.ID, &p.MerchantID, &p.Name, &p.Price, &p.Description, &p.ImageData, &p.Active,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanOrder(s scanner) (*Order, error) {
	var (
		o      Order
		status string
	)
	err := s.Scan(&o.ID, &o.MerchantID, &o.ClientID, &o.ProductID, &o.Quantity, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = OrderStatus(status)
	return &o, nil
}

func scanSettings(s scanner) (*MerchantSettings, error) {
	var ms MerchantSettings
	err := s.Scan(&ms.ID, &ms.MerchantID, &ms.CompanyName, &ms.CompanyEmail, &ms.CompanyPhone,
		&ms.CompanyAddress, &ms.CompanyCity, &ms.CompanyCountry, &ms.CompanyWebsite, &ms.TaxID,
		&ms.TradeRegistry, &ms.BankName, &ms.BankAccount, &ms.Currency, &ms.PaymentTerms, &ms.InvoicePrefix,
		&ms.InvoiceStartNumber, &ms.LogoURL, &ms.ThemeColor, &ms.Language, &ms.Timezone,
		&ms.NotificationEmail, &ms.NotificationSMS, &ms.NotificationWhatsApp, &ms.AutoInvoice,
		&ms.AutoReminder, &ms.ReminderDays, &ms.Signature, &ms.Notes, &ms.CreatedAt, &ms.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ms, nil
}

// settingsArgs returns the upsert arguments in settingsColumns order, minus id.
func settingsArgs(s MerchantSettings) []any {
	return []any{
		s.MerchantID, s.CompanyName, s.CompanyEmail, s.CompanyPhone, s.CompanyAddress, s.CompanyCity,
		s.CompanyCountry, s.CompanyWebsite, s.TaxID, s.TradeRegistry, s.BankName, s.BankAccount, s.Currency,
		s.PaymentTerms, s.InvoicePrefix, s.InvoiceStartNumber, s.LogoURL, s.ThemeColor, s.Language, s.Timezone,
		s.NotificationEmail, s.NotificationSMS, s.NotificationWhatsApp, s.AutoInvoice, s.AutoReminder,
		s.ReminderDays, s.Signature, s.Notes, s.CreatedAt, s.UpdatedAt,
	}
}

// settingsUpdateSet lists the columns rewritten when an upsert hits an existing row.
// created_at and id keep their first-insert values.
var settingsUpdateSet = []string{
	"company_name", "company_email", "company_phone", "company_address", "company_city", "company_country",
	"company_website", "tax_id", "trade_registry", "bank_name", "bank_account", "currency", "payment_terms",
	"invoice_prefix", "invoice_start_number", "logo_url", "theme_color", "language", "timezone",
	"notification_email", "notification_sms", "notification_whatsapp", "auto_invoice", "auto_reminder",
	"reminder_days", "signature", "notes", "updated_at",
}

func settingsConflictClause() string {
	parts := make([]string, len(settingsUpdateSet))
	for i, col := range settingsUpdateSet {
		parts[i] = col + " = excluded." + col
	}
	return "ON CONFLICT (merchant_id) DO UPDATE SET " + strings.Join(parts, ", ")
}

// setBuilder assembles the SET clause of a partial update.
type setBuilder struct {
	placeholder func(n int) string
	parts       []string
	args        []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, column+" = "+b.placeholder(len(b.args)))
}

// arg appends a trailing argument (e.g. the WHERE id) and returns its placeholder.
func (b *setBuilder) arg(value any) string {
	b.args = append(b.args, value)
	return b.placeholder(len(b.args))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.parts, ", ")
}

func productSet(b *setBuilder, upd ProductUpdate) {
	if upd.Name != nil {
		b.add("name", *upd.Name)
	}
	if upd.Price != nil {
		b.add("price", *upd.Price)
	}
	if upd.Description != nil {
		b.add("description", *upd.Description)
	}
	if upd.ImageData != nil {
		b.add("image_data", *upd.ImageData)
	}
	if upd.Active != nil {
		b.add("active", *upd.Active)
	}
	b.add("updated_at", stamp(upd.UpdatedAt))
}

func clientSet(b *setBuilder, upd ClientUpdate) {
	optional := []struct {
		column string
		value  *string
	}{
		{"client_id", upd.ClientID},
		{"name", upd.Name},
		{"password", upd.Password},
		{"email", upd.Email},
		{"phone", upd.Phone},
		{"address", upd.Address},
		{"city", upd.City},
		{"zip", upd.Zip},
		{"wilaya", upd.Wilaya},
		{"payment_mode", upd.PaymentMode},
		{"fiscal_number", upd.FiscalNumber},
		{"notes", upd.Notes},
	}
	for _, f := range optional {
		if f.value != nil {
			b.add(f.column, *f.value)
		}
	}
	if upd.CreditLimit != nil {
		b.add("credit_limit", *upd.CreditLimit)
	}
	if upd.Active != nil {
		b.add("active", *upd.Active)
	}
	if upd.ShowPrice != nil {
		b.add("show_price", *upd.ShowPrice)
	}
	if upd.ShowQuantity != nil {
		b.add("show_quantity", *upd.ShowQuantity)
	}
	b.add("updated_at", stamp(upd.UpdatedAt))
}

// stamp falls back to the wall clock when the caller did not set a timestamp.
// Values are truncated to the microsecond precision Postgres keeps.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Microsecond)
}

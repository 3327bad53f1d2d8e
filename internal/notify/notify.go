// Package notify tells merchants about new client orders over WhatsApp.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.mau.fi/whatsmeow/types"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
)

const channelWhatsApp = "whatsapp"

// Sender delivers a text message to a WhatsApp JID. Implemented by wa.Client and LogSender.
type Sender interface {
	SendText(ctx context.Context, to types.JID, text string) error
}

// SettingsSource loads a merchant's notification preferences.
type SettingsSource interface {
	GetMerchantSettings(ctx context.Context, merchantID string) *repo.MerchantSettings
}

// PlacedOrder is a created order with the product name used in the message.
type PlacedOrder struct {
	Order       repo.Order
	ProductName string
}

// WhatsApp notifies the merchant's company phone when notification_whatsapp is enabled.
type WhatsApp struct {
	settings    SettingsSource
	sender      Sender
	countryCode string
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewWhatsApp(settings SettingsSource, sender Sender, countryCode string, logger *slog.Logger, m *metrics.Metrics) *WhatsApp {
	return &WhatsApp{
		settings:    settings,
		sender:      sender,
		countryCode: countryCode,
		logger:      logger.With("component", "notify"),
		metrics:     m,
	}
}

// OrdersPlaced sends one message summarising orders. Failures are logged only.
func (w *WhatsApp) OrdersPlaced(ctx context.Context, client repo.Client, orders []PlacedOrder) {
	if len(orders) == 0 {
		return
	}
	s := w.settings.GetMerchantSettings(ctx, client.MerchantID)
	if s == nil || !s.NotificationWhatsApp {
		w.count("skipped")
		return
	}
	jid, ok := PhoneJID(s.CompanyPhone, w.countryCode)
	if !ok {
		w.count("skipped")
		w.logger.Warn("whatsapp notification enabled without a usable company phone", "merchant", client.MerchantID)
		return
	}

	if err := w.sender.SendText(ctx, jid, OrderMessage(client, orders)); err != nil {
		w.count("failed")
		w.logger.Error("send order notification failed", "merchant", client.MerchantID, "error", err)
		return
	}
	w.count("sent")
	w.logger.Info("order notification sent", "merchant", client.MerchantID, "orders", len(orders))
}

func (w *WhatsApp) count(status string) {
	if w.metrics == nil {
		return
	}
	w.metrics.Notifications.WithLabelValues(channelWhatsApp, status).Inc()
	if status == "failed" {
		w.metrics.Errors.WithLabelValues("notify").Inc()
	}
}

// OrderMessage renders the notification text.
func OrderMessage(client repo.Client, orders []PlacedOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouvelle commande de %s (%s) :\n", client.Name, client.ClientID)
	for _, o := range orders {
		name := o.ProductName
		if name == "" {
			name = o.Order.ProductID
		}
		fmt.Fprintf(&b, "- %d x %s\n", o.Order.Quantity, name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// PhoneJID turns a phone number as typed in the settings form into a JID.
// Numbers with a single leading 0 are local and get countryCode prefixed.
func PhoneJID(phone, countryCode string) (types.JID, bool) {
	trimmed := strings.TrimSpace(phone)
	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	num := digits.String()
	switch {
	case strings.HasPrefix(trimmed, "+"):
	case strings.HasPrefix(num, "00"):
		num = num[2:]
	case strings.HasPrefix(num, "0"):
		num = countryCode + num[1:]
	}
	if len(num) < 8 {
		return types.JID{}, false
	}
	return types.NewJID(num, types.DefaultUserServer), true
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) SendText(_ context.Context, to types.JID, text string) error {
	s.Logger.Info("whatsapp disabled, notification logged", "to", to.String(), "text", text)
	return nil
}

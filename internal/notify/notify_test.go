package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/types"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
)

type settingsMap map[string]*repo.MerchantSettings

func (m settingsMap) GetMerchantSettings(_ context.Context, id string) *repo.MerchantSettings {
	return m[id]
}

type recordingSender struct {
	to   []types.JID
	text []string
	err  error
}

func (s *recordingSender) SendText(_ context.Context, to types.JID, text string) error {
	if s.err != nil {
		return s.err
	}
	s.to = append(s.to, to)
	s.text = append(s.text, text)
	return nil
}

var (
	client = repo.Client{MerchantID: "m1", ClientID: "C1", Name: "Ali"}
	placed = []PlacedOrder{
		{Order: repo.Order{ProductID: "p1", Quantity: 3}, ProductName: "Farine"},
		{Order: repo.Order{ProductID: "p2", Quantity: 1}},
	}
)

func newNotifier(settings settingsMap, sender Sender) (*WhatsApp, *metrics.Metrics) {
	m := metrics.NewUnregistered("test")
	return NewWhatsApp(settings, sender, "213", slog.New(slog.NewTextHandler(io.Discard, nil)), m), m
}

func TestOrdersPlacedSendsWhenEnabled(t *testing.T) {
	sender := &recordingSender{}
	n, m := newNotifier(settingsMap{"m1": {NotificationWhatsApp: true, CompanyPhone: "0555 12 34 56"}}, sender)

	n.OrdersPlaced(context.Background(), client, placed)

	require.Len(t, sender.to, 1)
	assert.Equal(t, "213555123456", sender.to[0].User)
	assert.Equal(t, "Nouvelle commande de Ali (C1) :\n- 3 x Farine\n- 1 x p2", sender.text[0])
	assert.InDelta(t, 1, testutil.ToFloat64(m.Notifications.WithLabelValues("whatsapp", "sent")), 0)
}

func TestOrdersPlacedRespectsPreferences(t *testing.T) {
	sender := &recordingSender{}
	n, m := newNotifier(settingsMap{
		"m1": {NotificationWhatsApp: false, CompanyPhone: "0555123456"},
		"m2": {NotificationWhatsApp: true},
	}, sender)

	n.OrdersPlaced(context.Background(), client, placed)
	other := client
	other.MerchantID = "m2"
	n.OrdersPlaced(context.Background(), other, placed)
	other.MerchantID = "m3"
	n.OrdersPlaced(context.Background(), other, placed)
	n.OrdersPlaced(context.Background(), client, nil)

	assert.Empty(t, sender.to)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Notifications.WithLabelValues("whatsapp", "skipped")), 0)
}

func TestOrdersPlacedSwallowsSendErrors(t *testing.T) {
	n, m := newNotifier(settingsMap{"m1": {NotificationWhatsApp: true, CompanyPhone: "+33 6 12 34 56 78"}}, &recordingSender{err: errors.New("offline")})

	assert.NotPanics(t, func() { n.OrdersPlaced(context.Background(), client, placed) })
	assert.InDelta(t, 1, testutil.ToFloat64(m.Notifications.WithLabelValues("whatsapp", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Errors.WithLabelValues("notify")), 0)
}

func TestPhoneJID(t *testing.T) {
	cases := map[string]string{
		"0555 12 34 56":     "213555123456",
		"+213 555-12-34-56": "213555123456",
		"00213555123456":    "213555123456",
		"213555123456":      "213555123456",
	}
	for in, want := range cases {
		jid, ok := PhoneJID(in, "213")
		require.True(t, ok, in)
		assert.Equal(t, want, jid.User, in)
		assert.Equal(t, types.DefaultUserServer, jid.Server)
	}

	_, ok := PhoneJID("", "213")
	assert.False(t, ok)
	_, ok = PhoneJID("12", "213")
	assert.False(t, ok)
}

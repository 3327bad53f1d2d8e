package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type brokenBackend struct{ MemoryBackend }

func (*brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk unplugged")
}

func newStore(t *testing.T, backend Backend) (*Store, *clock, *metrics.Metrics) {
	t.Helper()
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := metrics.NewUnregistered("test")
	s := New(backend, slog.New(slog.NewTextHandler(io.Discard, nil)), WithClock(c.now), WithMetrics(m))
	return s, c, m
}

var merchant = repo.Merchant{ID: "m-uuid", MerchantID: "M001", Name: "Shop", Password: "secret"}

func TestSaveThenGet(t *testing.T) {
	backend := NewMemoryBackend()
	s, _, _ := newStore(t, backend)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, MerchantPrincipal{Merchant: merchant}, merchant.ID))

	d, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleMerchant, d.Principal.Role())
	assert.Equal(t, "m-uuid", d.MerchantID)
	mp, isMerchant := d.Principal.(MerchantPrincipal)
	require.True(t, isMerchant)
	assert.Equal(t, "M001", mp.Merchant.MerchantID)
	assert.Empty(t, mp.Merchant.Password)

	raw, found, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"type":"merchant"`)
}

func TestExpiryIsEnforcedOnRead(t *testing.T) {
	backend := NewMemoryBackend()
	s, c, m := newStore(t, backend)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, MerchantPrincipal{Merchant: merchant}, merchant.ID))

	c.t = c.t.Add(DefaultTTL - time.Millisecond)
	_, ok := s.Get(ctx)
	assert.True(t, ok, "still valid just before the deadline")

	c.t = c.t.Add(time.Millisecond)
	_, ok = s.Get(ctx)
	assert.False(t, ok, "expired exactly at the deadline")

	_, found, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found, "the stale slot is deleted by the read")
	assert.InDelta(t, 1, testutil.ToFloat64(m.SessionEvents.WithLabelValues("expired")), 0)
}

func TestSaveOverwritesAndRestamps(t *testing.T) {
	s, c, _ := newStore(t, NewMemoryBackend())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, MerchantPrincipal{Merchant: merchant}, merchant.ID))

	c.t = c.t.Add(20 * time.Hour)
	client := repo.Client{ID: "c-uuid", MerchantID: "m-uuid", ClientID: "C1", Name: "Ali", Password: "pw"}
	require.NoError(t, s.Save(ctx, ClientPrincipal{Client: client}, client.MerchantID))

	c.t = c.t.Add(20 * time.Hour)
	d, ok := s.Get(ctx)
	require.True(t, ok, "the second save restarted the lifetime")
	assert.Equal(t, RoleClient, d.Principal.Role())
	assert.Equal(t, "c-uuid", d.Principal.PrincipalID())
	assert.Equal(t, "m-uuid", d.Principal.TenantID())
}

func TestMalformedRecordsAreDiscarded(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"user":`,
		"unknown type": `{"user":{"id":"x"},"type":"admin","merchant_id":"m","timestamp":1748779200000}`,
		"missing user": `{"type":"merchant","merchant_id":"m","timestamp":1748779200000}`,
		"no timestamp": `{"user":{"id":"x"},"type":"merchant","merchant_id":"m"}`,
		"user no id":   `{"user":{"name":"x"},"type":"client","merchant_id":"m","timestamp":1748779200000}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			backend := NewMemoryBackend()
			s, _, _ := newStore(t, backend)
			ctx := context.Background()
			require.NoError(t, backend.Set(ctx, DefaultKey, []byte(raw)))

			_, ok := s.Get(ctx)
			assert.False(t, ok)
			_, found, _ := backend.Get(ctx, DefaultKey)
			assert.False(t, found)
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s, _, _ := newStore(t, NewMemoryBackend())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, MerchantPrincipal{Merchant: merchant}, merchant.ID))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, ok := s.Get(ctx)
	assert.False(t, ok)
}

func TestBackendFailureReadsAsAbsent(t *testing.T) {
	s, _, m := newStore(t, &brokenBackend{})
	_, ok := s.Get(context.Background())
	assert.False(t, ok)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SessionEvents.WithLabelValues("error")), 0)
}

func TestCustomKeyAndTTL(t *testing.T) {
	backend := NewMemoryBackend()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s := New(backend, slog.New(slog.NewTextHandler(io.Discard, nil)), WithKey("other"), WithTTL(time.Minute), WithClock(c.now))
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, MerchantPrincipal{Merchant: merchant}, merchant.ID))

	_, found, _ := backend.Get(ctx, "other")
	assert.True(t, found)

	c.t = c.t.Add(time.Minute)
	_, ok := s.Get(ctx)
	assert.False(t, ok)
}

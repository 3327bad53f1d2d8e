package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type memBucket struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *memBucket) Upload(_ context.Context, path string, data []byte, contentType string) error {
	if b.err != nil {
		return b.err
	}
	b.objects[path] = data
	b.types[path] = contentType
	return nil
}

func (b *memBucket) PublicURL(path string) string {
	return "https://cdn.example/merchant-assets/" + path
}

// countingRepo records which lookups the gateway issues.
type countingRepo struct {
	repo.Repository
	resolveCalls int
	clientCalls  int
}

func (r *countingRepo) ResolveMerchantID(context.Context, string) (string, error) {
	r.resolveCalls++
	return "", fmt.Errorf("resolve merchant id: %w", repo.ErrNotFound)
}

func (r *countingRepo) FindClientByCredentials(context.Context, string, string, string) (*repo.Client, error) {
	r.clientCalls++
	return nil, fmt.Errorf("find client by credentials: %w", repo.ErrNotFound)
}

type fixture struct {
	gw      *Gateway
	repo    *repo.SQLiteRepository
	clock   *fakeClock
	bucket  *memBucket
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := repo.NewSQLite(ctx, filepath.Join(t.TempDir(), "gw.db"), discard)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	require.NoError(t, r.RunMigrations(ctx))

	f := &fixture{
		repo:    r,
		clock:   &fakeClock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		bucket:  newMemBucket(),
		metrics: metrics.NewUnregistered("test"),
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.gw = New(r, logger, WithClock(f.clock.Now), WithBucket(f.bucket), WithMetrics(f.metrics))
	return f
}

func (f *fixture) merchant(t *testing.T, handle string) *repo.Merchant {
	t.Helper()
	m := f.gw.CreateMerchant(context.Background(), repo.Merchant{MerchantID: handle, Name: "Shop", Password: "s3cret"})
	require.NotNil(t, m)
	return m
}

func TestAuthenticateMerchant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")

	got := f.gw.AuthenticateMerchant(ctx, "M001", "s3cret")
	require.NotNil(t, got)
	assert.Equal(t, m.ID, got.ID)

	assert.Nil(t, f.gw.AuthenticateMerchant(ctx, "M001", "wrong"))
	assert.Nil(t, f.gw.AuthenticateMerchant(ctx, "nobody", "s3cret"))
	assert.NotContains(t, f.logs.String(), "s3cret")
}

func TestAuthenticateClientScopesToMerchant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.merchant(t, "A")
	b := f.merchant(t, "B")
	require.NotNil(t, f.gw.CreateClient(ctx, repo.Client{MerchantID: a.ID, ClientID: "C1", Name: "Ali", Password: "pa", Active: true}))
	require.NotNil(t, f.gw.CreateClient(ctx, repo.Client{MerchantID: b.ID, ClientID: "C1", Name: "Ali", Password: "pb", Active: true}))

	c := f.gw.AuthenticateClient(ctx, "C1", "pb", "B")
	require.NotNil(t, c)
	assert.Equal(t, b.ID, c.MerchantID)

	assert.Nil(t, f.gw.AuthenticateClient(ctx, "C1", "pb", "A"))
	assert.Nil(t, f.gw.AuthenticateClient(ctx, "C1", "pb", "unknown"))
}

func TestAuthenticateClientSkipsLookupForUnknownMerchant(t *testing.T) {
	fake := &countingRepo{}
	gw := New(fake, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Nil(t, gw.AuthenticateClient(context.Background(), "C1", "pw", "ghost"))
	assert.Equal(t, 1, fake.resolveCalls)
	assert.Equal(t, 0, fake.clientCalls)
}

func TestListProductsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")

	assert.NotNil(t, f.gw.ListProducts(ctx, m.ID))
	assert.Empty(t, f.gw.ListProducts(ctx, m.ID))

	first := f.gw.CreateProduct(ctx, repo.Product{MerchantID: m.ID, Name: "Flour", Price: decimal.NewFromInt(100), Active: true})
	require.NotNil(t, first)
	f.clock.Advance(time.Second)
	second := f.gw.CreateProduct(ctx, repo.Product{MerchantID: m.ID, Name: "Sugar", Price: decimal.NewFromInt(80), Active: false})
	require.NotNil(t, second)

	list := f.gw.ListProducts(ctx, m.ID)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.False(t, list[0].Active, "inactive products stay visible to the merchant")
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")
	p := f.gw.CreateProduct(ctx, repo.Product{MerchantID: m.ID, Name: "Flour", Price: decimal.NewFromInt(100), Active: true})
	require.NotNil(t, p)

	f.clock.Advance(time.Hour)
	updated := f.gw.UpdateProduct(ctx, p.ID, repo.ProductUpdate{})
	require.NotNil(t, updated)
	assert.True(t, f.clock.Now().Equal(updated.UpdatedAt))
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Flour", updated.Name)

	assert.Nil(t, f.gw.UpdateProduct(ctx, "missing", repo.ProductUpdate{}))
}

func TestDeleteMissingReturnsFalse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")
	c := f.gw.CreateClient(ctx, repo.Client{MerchantID: m.ID, ClientID: "C1", Name: "Ali", Password: "pw"})
	require.NotNil(t, c)

	assert.True(t, f.gw.DeleteClient(ctx, c.ID))
	assert.False(t, f.gw.DeleteClient(ctx, c.ID))
	assert.False(t, f.gw.DeleteProduct(ctx, "missing"))
	assert.Nil(t, f.gw.GetClientByID(ctx, c.ID))
}

func TestConflictIsCategorised(t *testing.T) {
	f := newFixture(t)
	f.merchant(t, "M001")

	assert.Nil(t, f.gw.CreateMerchant(context.Background(), repo.Merchant{MerchantID: "M001", Name: "Again", Password: "x"}))
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("create_merchant", CategoryConflict)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("create_merchant", outcomeOK)), 0)
	assert.Contains(t, f.logs.String(), "category=conflict")
}

func TestTransportFailureYieldsSentinels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Close()

	assert.Equal(t, []repo.Order{}, f.gw.ListOrders(ctx, "m"))
	assert.Nil(t, f.gw.GetMerchantSettings(ctx, "m"))
	assert.False(t, f.gw.SaveMerchantSettings(ctx, repo.MerchantSettings{MerchantID: "m"}))
	assert.Error(t, f.gw.Ping(ctx))
	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.Errors.WithLabelValues("gateway")), 0)
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, f.gw.AuthenticateMerchant(ctx, "M001", "x"))
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("authenticate_merchant", CategoryCanceled)), 0)
}

func TestOrdersLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")
	c := f.gw.CreateClient(ctx, repo.Client{MerchantID: m.ID, ClientID: "C1", Name: "Ali", Password: "pw"})
	p := f.gw.CreateProduct(ctx, repo.Product{MerchantID: m.ID, Name: "Flour", Price: decimal.NewFromInt(10), Active: true})
	require.NotNil(t, c)
	require.NotNil(t, p)

	o := f.gw.CreateOrder(ctx, repo.Order{MerchantID: m.ID, ClientID: c.ID, ProductID: p.ID, Quantity: 2})
	require.NotNil(t, o)
	assert.Equal(t, repo.OrderPending, o.Status)

	assert.Nil(t, f.gw.CreateOrder(ctx, repo.Order{MerchantID: m.ID, ClientID: "ghost", ProductID: p.ID, Quantity: 1}))

	d := f.gw.UpdateOrderStatus(ctx, o.ID, repo.OrderDelivered)
	require.NotNil(t, d)
	assert.Equal(t, repo.OrderDelivered, d.Status)
	assert.Len(t, f.gw.ListOrders(ctx, m.ID), 1)
}

func TestSettingsUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.merchant(t, "M001")

	assert.Nil(t, f.gw.GetMerchantSettings(ctx, m.ID))
	require.True(t, f.gw.SaveMerchantSettings(ctx, repo.MerchantSettings{MerchantID: m.ID, CompanyName: "Acme"}))
	created := f.clock.Now()

	f.clock.Advance(time.Hour)
	require.True(t, f.gw.SaveMerchantSettings(ctx, repo.MerchantSettings{MerchantID: m.ID, CompanyName: "Acme SARL"}))

	s := f.gw.GetMerchantSettings(ctx, m.ID)
	require.NotNil(t, s)
	assert.Equal(t, "Acme SARL", s.CompanyName)
	assert.True(t, created.Equal(s.CreatedAt))
	assert.True(t, f.clock.Now().Equal(s.UpdatedAt))
}

func TestUploadLogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up := f.gw.UploadLogo(ctx, "m-1", LogoFile{Name: "Logo.PNG", Data: pngHeader})
	require.NotNil(t, up)
	path := fmt.Sprintf("merchant-logos/m-1-%d.png", f.clock.Now().UnixMilli())
	assert.Equal(t, "https://cdn.example/merchant-assets/"+path, up.URL)
	assert.Equal(t, "image/png", f.bucket.types[path])

	f.clock.Advance(time.Millisecond)
	up = f.gw.UploadLogo(ctx, "m-1", LogoFile{Name: "noext", Data: pngHeader})
	require.NotNil(t, up)
	assert.Contains(t, up.URL, ".png")

	f.bucket.err = errors.New("bucket down")
	assert.Nil(t, f.gw.UploadLogo(ctx, "m-1", LogoFile{Name: "a.png", Data: pngHeader}))

	none := New(f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Nil(t, none.UploadLogo(ctx, "m-1", LogoFile{Name: "a.png", Data: pngHeader}))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryNotFound, Categorize(fmt.Errorf("x: %w", repo.ErrNotFound)))
	assert.Equal(t, CategoryConflict, Categorize(fmt.Errorf("x: %w", repo.ErrConflict)))
	assert.Equal(t, CategoryCanceled, Categorize(context.DeadlineExceeded))
	assert.Equal(t, CategoryTransport, Categorize(errors.New("connection refused")))
}

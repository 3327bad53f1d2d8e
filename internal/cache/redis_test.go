package cache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPrefix(t *testing.T) {
	r := New(Config{Addr: "localhost:0", KeyPrefix: "tradepro:"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = r.Close() })
	assert.Equal(t, "tradepro:tradepro_session", r.key("tradepro_session"))
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r := New(Config{Addr: addr, KeyPrefix: "test:" + uuid.NewString() + ":"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = r.Close() })
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	_, found, err := r.Get(ctx, "slot")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Set(ctx, "slot", []byte(`{"type":"merchant"}`)))
	data, found, err := r.Get(ctx, "slot")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"type":"merchant"}`, string(data))

	require.NoError(t, r.Delete(ctx, "slot"))
	require.NoError(t, r.Delete(ctx, "slot"))
	_, found, err = r.Get(ctx, "slot")
	require.NoError(t, err)
	assert.False(t, found)
}

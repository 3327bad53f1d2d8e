package localstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepro/internal/repo"
	"tradepro/internal/session"
)

func TestSlotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := Open(ctx, path, logger)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "k", []byte("v1")))
	require.NoError(t, st.Set(ctx, "k", []byte("v2")))
	require.NoError(t, st.Close())

	st, err = Open(ctx, path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	data, found, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, st.Delete(ctx, "k"))
	require.NoError(t, st.Delete(ctx, "k"))
	_, found, err = st.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBacksSessionStore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := Open(ctx, filepath.Join(t.TempDir(), "local.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := session.New(st, logger, session.WithClock(func() time.Time { return now }))
	c := repo.Client{ID: "c1", MerchantID: "m1", ClientID: "C1", Name: "Ali"}
	require.NoError(t, sessions.Save(ctx, session.ClientPrincipal{Client: c}, c.MerchantID))

	d, ok := sessions.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "m1", d.MerchantID)

	now = now.Add(25 * time.Hour)
	_, ok = sessions.Get(ctx)
	assert.False(t, ok)
	_, found, err := st.Get(ctx, session.DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)
}

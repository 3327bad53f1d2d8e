package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepro/internal/metrics"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newServer(t *testing.T, h Handlers, basePath string) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewUnregistered("test")
	return New(":0", slog.New(slog.NewTextHandler(io.Discard, nil)), m, h, basePath), m
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	s, m := newServer(t, Handlers{}, "")
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/healthz", "200")), 0)
}

func TestReadyzReflectsPinger(t *testing.T) {
	s, _ := newServer(t, Handlers{Ready: pinger{}}, "")
	assert.Equal(t, http.StatusOK, get(t, s, "/readyz").Code)

	s, m := newServer(t, Handlers{Ready: pinger{err: errors.New("db down")}}, "")
	rec := get(t, s, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/readyz", "503")), 0)
}

func TestBasePath(t *testing.T) {
	s, _ := newServer(t, Handlers{}, "tradepro/")
	assert.Equal(t, http.StatusOK, get(t, s, "/tradepro/healthz").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/tradeprox/healthz").Code)
}

func TestAssetsServedFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "merchant-logos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "merchant-logos", "m1-1.png"), []byte("png"), 0o644))

	s, m := newServer(t, Handlers{AssetsDir: dir}, "")
	rec := get(t, s, "/assets/merchant-logos/m1-1.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/assets", "200")), 0)

	post := httptest.NewRecorder()
	s.Handler().ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/assets/merchant-logos/m1-1.png", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, post.Code)
}

func TestAssetsAbsentWithoutDir(t *testing.T) {
	s, _ := newServer(t, Handlers{}, "")
	assert.Equal(t, http.StatusNotFound, get(t, s, "/assets/x.png").Code)
}

// Package gateway mediates every read and write against the remote store.
//
// Gateway methods never return errors. Failures are logged, counted and
// collapsed into a sentinel: nil for records, false for booleans, an empty
// slice for lists.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tradepro/internal/metrics"
	"tradepro/internal/repo"
	"tradepro/internal/storage"
)

// Failure categories reported in logs and the outcome metric label.
const (
	CategoryNotFound  = "not_found"
	CategoryConflict  = "conflict"
	CategoryCanceled  = "canceled"
	CategoryTransport = "transport"

	outcomeOK = "ok"
)

// Gateway is the single data access surface for the dashboards. It is safe for concurrent use.
type Gateway struct {
	repo    repo.Repository
	bucket  storage.Bucket
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithBucket sets the object storage used for logo uploads.
func WithBucket(b storage.Bucket) Option {
	return func(g *Gateway) { g.bucket = b }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock overrides the time source used for timestamps and upload paths.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// New builds a Gateway over r.
func New(r repo.Repository, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		repo:   r,
		logger: logger.With("component", "gateway"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ping reports whether the remote store is reachable. Used by the readiness probe.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.repo.Ping(ctx)
}

func (g *Gateway) timestamp() time.Time {
	return g.now().UTC()
}

// call runs fn under the uniform contract: one debug line per request, a
// warn or error line per failure, and a metric sample per outcome.
func call[T any](ctx context.Context, g *Gateway, op string, attrs []any, fn func(context.Context) (T, error)) (T, bool) {
	log := g.logger.With(append([]any{"operation", op}, attrs...)...)
	log.Debug("gateway request")

	start := time.Now()
	out, err := fn(ctx)
	g.observe(op, err, time.Since(start))
	if err == nil {
		return out, true
	}

	category := Categorize(err)
	if category == CategoryNotFound {
		log.Warn("gateway request found nothing", "category", category, "error", err)
	} else {
		log.Error("gateway request failed", "category", category, "error", err)
	}
	var zero T
	return zero, false
}

func (g *Gateway) observe(op string, err error, took time.Duration) {
	if g.metrics == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = Categorize(err)
		if outcome == CategoryTransport {
			g.metrics.Errors.WithLabelValues("gateway").Inc()
		}
	}
	g.metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
	g.metrics.GatewayLatency.WithLabelValues(op).Observe(took.Seconds())
}

// Categorize maps a repository error onto a failure category.
func Categorize(err error) string {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, repo.ErrConflict):
		return CategoryConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CategoryCanceled
	default:
		return CategoryTransport
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

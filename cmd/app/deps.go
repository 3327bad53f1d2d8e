package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tradepro/internal/cache"
	"tradepro/internal/config"
	"tradepro/internal/gateway"
	"tradepro/internal/localstore"
	"tradepro/internal/metrics"
	"tradepro/internal/repo"
	"tradepro/internal/session"
	"tradepro/internal/storage"
)

// deps is everything the subcommands share. close releases in reverse order.
type deps struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	repo     repo.Repository
	bucket   storage.Bucket
	gateway  *gateway.Gateway
	sessions *session.Store
	closers  []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*deps, error) {
	d := &deps{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.Registry(cfg.App.MetricsNamespace),
	}

	r, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	d.repo = r
	d.closers = append(d.closers, r.Close)

	bucket, err := storage.New(ctx, storage.Config{
		Provider:      cfg.Storage.Provider,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		LocalDir:      cfg.Storage.LocalDir,
	}, logger)
	if err != nil {
		d.close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	d.bucket = bucket

	opts := []gateway.Option{gateway.WithMetrics(d.metrics)}
	if bucket != nil {
		opts = append(opts, gateway.WithBucket(bucket))
	} else {
		logger.Warn("no storage provider configured, logo uploads will fail")
	}
	d.gateway = gateway.New(r, logger, opts...)

	backend, closeBackend, err := openSessionBackend(ctx, cfg.Session, logger)
	if err != nil {
		d.close()
		return nil, fmt.Errorf("init session backend: %w", err)
	}
	d.closers = append(d.closers, closeBackend)
	d.sessions = session.New(backend, logger,
		session.WithKey(cfg.Session.Key),
		session.WithTTL(cfg.Session.TTL),
		session.WithMetrics(d.metrics),
	)

	return d, nil
}

func openRepository(ctx context.Context, cfg config.Database, logger *slog.Logger) (repo.Repository, error) {
	switch cfg.Driver {
	case "postgres":
		return repo.New(ctx, cfg.URL, cfg.Schema, logger)
	case "sqlite":
		return repo.NewSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openSessionBackend(ctx context.Context, cfg config.Session, logger *slog.Logger) (session.Backend, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		store, err := localstore.Open(ctx, cfg.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed closing local store", "error", err)
			}
		}, nil
	case "redis":
		client := cache.New(cache.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			UseTLS:    cfg.RedisTLS,
			KeyPrefix: cfg.RedisPrefix,
			Expiry:    cfg.TTL,
		}, logger)
		if err := client.Ping(ctx); err != nil {
			logger.Warn("redis ping failed", "error", err)
		}
		return client, func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed closing redis", "error", err)
			}
		}, nil
	case "memory":
		return session.NewMemoryBackend(), func() {}, nil
	default:
		return nil, nil, errors.New("unsupported session backend " + cfg.Backend)
	}
}

// Package storage puts merchant assets into an object bucket and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Bucket is an object store addressed by slash-separated paths.
type Bucket interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}

// Config selects and configures a Bucket.
type Config struct {
	Provider      string // "s3" | "local" | "none"
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	LocalDir      string
}

// New builds the bucket named by cfg.Provider. "none" yields a nil Bucket.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "s3":
		return NewS3(ctx, cfg, logger)
	case "local":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

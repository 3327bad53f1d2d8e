package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalBucket stores objects below a directory on disk. httpserver serves
// the directory under /assets/ during development.
type LocalBucket struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewLocal creates the root directory if needed.
func NewLocal(root, baseURL string, logger *slog.Logger) (*LocalBucket, error) {
	if root == "" {
		root = "./data/assets"
	}
	if baseURL == "" {
		baseURL = "/assets"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &LocalBucket{root: abs, baseURL: baseURL, logger: logger.With("component", "storage_local")}, nil
}

// Root returns the directory objects are written to.
func (b *LocalBucket) Root() string {
	return b.root
}

// Upload writes data at path below the root. Paths escaping the root are rejected.
func (b *LocalBucket) Upload(ctx context.Context, path string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := b.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", path, err)
	}
	b.logger.Debug("object written", "path", path, "bytes", len(data))
	return nil
}

// PublicURL returns baseURL joined with path.
func (b *LocalBucket) PublicURL(path string) string {
	return joinURL(b.baseURL, path)
}

func (b *LocalBucket) resolve(path string) (string, error) {
	full := filepath.Join(b.root, filepath.FromSlash(path))
	if full != b.root && !strings.HasPrefix(full, b.root+string(filepath.Separator)) {
		return "", fmt.Errorf("object path %q escapes bucket root", path)
	}
	return full, nil
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tradepro/internal/repo"
)

// LogoBucketPrefix is the folder logos are written to inside the assets bucket.
const LogoBucketPrefix = "merchant-logos"

var errNoBucket = errors.New("object storage not configured")

// LogoFile is an uploaded logo as received from the form.
type LogoFile struct {
	Name string
	Data []byte
}

// LogoUpload is the result of a successful logo upload.
type LogoUpload struct {
	URL string `json:"url"`
}

func (g *Gateway) GetMerchantSettings(ctx context.Context, merchantID string) *repo.MerchantSettings {
	out, _ := call(ctx, g, "get_merchant_settings", []any{"merchant", merchantID},
		func(ctx context.Context) (*repo.MerchantSettings, error) {
			return g.repo.GetMerchantSettings(ctx, merchantID)
		})
	return out
}

// SaveMerchantSettings upserts the whole settings row keyed on merchant_id.
func (g *Gateway) SaveMerchantSettings(ctx context.Context, s repo.MerchantSettings) bool {
	now := g.timestamp()
	s.CreatedAt, s.UpdatedAt = now, now
	_, ok := call(ctx, g, "save_merchant_settings", []any{"merchant", s.MerchantID},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, g.repo.UpsertMerchantSettings(ctx, s)
		})
	return ok
}

// UploadLogo stores the file at merchant-logos/{merchantID}-{unixMillis}.{ext}
// and returns its public URL.
func (g *Gateway) UploadLogo(ctx context.Context, merchantID string, file LogoFile) *LogoUpload {
	mt := mimetype.Detect(file.Data)
	path := LogoPath(merchantID, g.timestamp().UnixMilli(), logoExt(file.Name, mt))
	out, _ := call(ctx, g, "upload_logo", []any{"merchant", merchantID, "path", path, "bytes", len(file.Data)},
		func(ctx context.Context) (*LogoUpload, error) {
			if g.bucket == nil {
				return nil, errNoBucket
			}
			if err := g.bucket.Upload(ctx, path, file.Data, mt.String()); err != nil {
				return nil, fmt.Errorf("upload logo: %w", err)
			}
			return &LogoUpload{URL: g.bucket.PublicURL(path)}, nil
		})
	return out
}

// LogoPath builds the object path of a logo.
func LogoPath(merchantID string, unixMillis int64, ext string) string {
	return fmt.Sprintf("%s/%s-%d.%s", LogoBucketPrefix, merchantID, unixMillis, ext)
}

func logoExt(name string, mt *mimetype.MIME) string {
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if ext := strings.TrimPrefix(mt.Extension(), "."); ext != "" {
		return ext
	}
	return "bin"
}

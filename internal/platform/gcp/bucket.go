package gcp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type BucketConfig struct {
	Name         string
	CDNDomain    string
	EmulatorHost string
}

func BucketConfigFromEnv() BucketConfig {
	return BucketConfig{
		Name:         envutil.String("BANNER_GCS_BUCKET_NAME", ""),
		CDNDomain:    envutil.String("BANNER_CDN_DOMAIN", ""),
		EmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
	}
}

type BucketService interface {
	UploadFile(dbc dbctx.Context, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, key string) error
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           BucketConfig
}

// NewBucketService returns nil, nil when no bucket is configured; banner
// uploads are then rejected while generated placeholders keep working.
func NewBucketService(ctx context.Context, log *logger.Logger, cfg BucketConfig) (BucketService, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		log.Warn("BANNER_GCS_BUCKET_NAME not set; banner uploads are disabled")
		return nil, nil
	}
	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "BucketService")
	serviceLog.Info("Object storage initialized", "bucket", cfg.Name, "cdn_domain", cfg.CDNDomain, "emulator_host", cfg.EmulatorHost)
	return &bucketService{log: serviceLog, storageClient: stClient, cfg: cfg}, nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.cfg.Name).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, key string) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.cfg.Name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.cfg.Name, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return publicURL(bs.cfg, key)
}

func publicURL(cfg BucketConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(cfg.CDNDomain, "/"), key)
	}
	if host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"); host != "" {
		return fmt.Sprintf("%s/%s/%s", host, cfg.Name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Name, key)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	default:
		return ""
	}
}

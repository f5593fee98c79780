package app

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/coursegen-backend/internal/platform/gcp"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
	"github.com/yungbote/coursegen-backend/internal/platform/redis"
	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
)

// Clients holds the optional external clients. Every field may be nil when
// its credential or address is not configured.
type Clients struct {
	OpenAI     *goopenai.Client
	YouTube    *youtube.Client
	VideoCache redis.JSONCache
	Bucket     gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	openaiClient, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	yt, err := youtube.NewClient(ctx, log, cfg.YouTube)
	if err != nil {
		return Clients{}, fmt.Errorf("init youtube client: %w", err)
	}

	// A cache outage only costs quota, so it is not fatal.
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Video cache unavailable; continuing without it", "error", err)
		cache = nil
	}

	bucket, err := gcp.NewBucketService(ctx, log, cfg.Bucket)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	return Clients{
		OpenAI:     openaiClient,
		YouTube:    yt,
		VideoCache: cache,
		Bucket:     bucket,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.VideoCache != nil {
		_ = c.VideoCache.Close()
	}
}

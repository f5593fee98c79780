// Package youtube wraps the YouTube Data API v3 calls used for lesson videos:
// filtered keyword search and a videos.list credential probe.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// probeVideoID is a long-lived public video; videos.list on it costs one quota unit.
const probeVideoID = "dQw4w9WgXcQ"

type Config struct {
	APIKey   string
	Endpoint string
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:   envutil.String("YOUTUBE_API_KEY", ""),
		Endpoint: envutil.String("YOUTUBE_ENDPOINT", ""),
	}
}

func (c Config) HasCredential() bool { return strings.TrimSpace(c.APIKey) != "" }

type Video struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
}

type Client struct {
	log *logger.Logger
	svc *ytapi.Service
}

// NewClient returns nil, nil when no API key is configured.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if !cfg.HasCredential() {
		if log != nil {
			log.Warn("YOUTUBE_API_KEY not set; lessons will not get video recommendations")
		}
		return nil, nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	all := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		if !strings.HasSuffix(ep, "/") {
			ep += "/"
		}
		all = append(all, option.WithEndpoint(ep))
	}
	all = append(all, opts...)
	svc, err := ytapi.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &Client{log: log.With("client", "YouTube"), svc: svc}, nil
}

// Probe fetches one known video by id; any error means the key is unusable.
func (c *Client) Probe(ctx context.Context) error {
	resp, err := c.svc.Videos.List([]string{"id"}).Id(probeVideoID).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return mapError("videos.list", err)
	}
	if resp == nil {
		return fmt.Errorf("youtube videos.list: empty response")
	}
	return nil
}

// Search returns embeddable, moderate-safe, HD, English-relevant videos.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if maxResults <= 0 {
		maxResults = 6
	}
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoEmbeddable("true").
		SafeSearch("moderate").
		VideoDefinition("high").
		RelevanceLanguage("en").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError("search.list", err)
	}
	out := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		v := Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: thumbnail(item.Snippet.Thumbnails),
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.PublishedAt = ts
		}
		out = append(out, v)
	}
	return out, nil
}

func thumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytapi.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// StatusError carries the HTTP status of a failed API call.
type StatusError struct {
	Op         string
	StatusCode int
	Reason     string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s http %d (%s): %v", e.Op, e.StatusCode, e.Reason, e.Err)
	}
	return fmt.Sprintf("youtube %s http %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// QuotaExceeded reports the 403 the API uses for exhausted quota.
func (e *StatusError) QuotaExceeded() bool {
	return e.StatusCode == 403 && strings.Contains(strings.ToLower(e.Reason), "quota")
}

// KeyRejected reports an invalid, expired or unauthorized API key.
func (e *StatusError) KeyRejected() bool {
	switch e.StatusCode {
	case 400:
		return strings.Contains(strings.ToLower(e.Reason), "key")
	case 401, 403:
		return !e.QuotaExceeded()
	}
	return false
}

func mapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		reason := ""
		if len(gerr.Errors) > 0 {
			reason = gerr.Errors[0].Reason
		}
		return &StatusError{Op: op, StatusCode: gerr.Code, Reason: reason, Err: err}
	}
	return fmt.Errorf("youtube %s: %w", op, err)
}

package video

import (
	"context"

	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
)

type youtubeSearcher struct {
	client *youtube.Client
}

// NewYouTubeSearcher returns nil for a nil client so the enricher reports the
// missing credential instead of calling through a nil pointer.
func NewYouTubeSearcher(client *youtube.Client) Searcher {
	if client == nil {
		return nil
	}
	return &youtubeSearcher{client: client}
}

func (s *youtubeSearcher) Probe(ctx context.Context) error {
	return s.client.Probe(ctx)
}

func (s *youtubeSearcher) Search(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	videos, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(videos))
	for _, v := range videos {
		out = append(out, Candidate{
			VideoID:      v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			URL:          WatchURL(v.ID),
			PublishedAt:  v.PublishedAt,
		})
	}
	return out, nil
}

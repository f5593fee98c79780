// Package video attaches a best-match tutorial video to each lesson. A single
// credential probe per course gates the whole phase; search failures only
// affect the lesson they happened on.
package video

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	NoteNoCredential = "Video recommendations are unavailable because no YouTube API key is configured."
	NoteProbeFailed  = "Video recommendations were skipped for this course because the YouTube API key could not be validated."
	NoteNoMatch      = "No sufficiently relevant video was found for this lesson."
)

const searchSuffix = "tutorial educational"

// Candidate is a search hit. Never persisted; only the top URL reaches the lesson.
type Candidate struct {
	VideoID        string    `json:"videoId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ThumbnailURL   string    `json:"thumbnailUrl"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"publishedAt"`
	RelevanceScore float64   `json:"relevanceScore"`
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// Searcher is the video search provider.
type Searcher interface {
	// Probe issues one cheap authenticated request to prove the credential works.
	Probe(ctx context.Context) error
	Search(ctx context.Context, query string, maxResults int) ([]Candidate, error)
}

// Cache stores the chosen candidate per search query. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*Candidate, error)
	Set(ctx context.Context, key string, c *Candidate, ttl time.Duration) error
}

// BaseQuery is what candidates are scored against.
func BaseQuery(topic, lessonTitle string) string {
	return strings.TrimSpace(strings.TrimSpace(topic) + " " + strings.TrimSpace(lessonTitle))
}

// SearchQuery biases the provider toward instructional content.
func SearchQuery(topic, lessonTitle string) string {
	return BaseQuery(topic, lessonTitle) + " " + searchSuffix
}

func cacheKey(query string, maxResults int) string {
	sum := sha1.Sum([]byte(strings.ToLower(query)))
	return "coursegen:video:" + hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(maxResults)
}

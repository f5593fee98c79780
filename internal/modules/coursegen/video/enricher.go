package video

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
)

type Config struct {
	MaxResults   int
	ProbeTimeout time.Duration
	CacheTTL     time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		MaxResults:   envutil.Int("YOUTUBE_MAX_RESULTS", 3),
		ProbeTimeout: envutil.Seconds("YOUTUBE_PROBE_TIMEOUT_SECONDS", 5*time.Second),
		CacheTTL:     time.Duration(envutil.Int("VIDEO_CACHE_TTL_HOURS", 24)) * time.Hour,
	}
}

// Status is the outcome of the per-course credential check.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusNoCredential Status = "no_credential"
	StatusProbeFailed  Status = "probe_failed"
)

// Note is the videoNote every lesson gets when the phase is skipped.
func (s Status) Note() string {
	switch s {
	case StatusNoCredential:
		return NoteNoCredential
	case StatusProbeFailed:
		return NoteProbeFailed
	default:
		return ""
	}
}

// Summary counts lessons that received a video.
type Summary struct {
	Status    Status
	Attempted int
	Found     int
}

type Enricher struct {
	log    *logger.Logger
	search Searcher
	cache  Cache
	cfg    Config
}

// NewEnricher treats a nil searcher as "no credential configured". cache may be nil.
func NewEnricher(log *logger.Logger, search Searcher, cache Cache, cfg Config) *Enricher {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	return &Enricher{log: log.With("component", "VideoEnricher"), search: search, cache: cache, cfg: cfg}
}

func (e *Enricher) Configured() bool { return e != nil && e.search != nil }

// CheckCredential runs the probe once, bounded by ProbeTimeout.
func (e *Enricher) CheckCredential(ctx context.Context) Status {
	if !e.Configured() {
		return StatusNoCredential
	}
	pctx, cancel := context.WithTimeout(ctx, e.cfg.ProbeTimeout)
	defer cancel()
	if err := e.search.Probe(pctx); err != nil {
		var se *youtube.StatusError
		switch {
		case errors.As(err, &se) && se.QuotaExceeded():
			e.log.Warn("YouTube quota exhausted; skipping video enrichment", "status", se.StatusCode, "reason", se.Reason)
		case errors.As(err, &se) && se.KeyRejected():
			e.log.Warn("YouTube API key rejected; skipping video enrichment", "status", se.StatusCode, "reason", se.Reason)
		default:
			e.log.Warn("Video credential check failed; skipping video enrichment", "error", err)
		}
		return StatusProbeFailed
	}
	return StatusAvailable
}

// Enrich probes the credential, then searches per lesson with at most
// concurrency searches in flight. It never returns an error.
func (e *Enricher) Enrich(ctx context.Context, course *coursegen.CourseAggregate, concurrency int) Summary {
	refs := course.Lessons()
	sum := Summary{Status: e.CheckCredential(ctx), Attempted: len(refs)}
	if sum.Status != StatusAvailable {
		note := sum.Status.Note()
		for _, ref := range refs {
			ref.Lesson.YoutubeVideoURL = ""
			ref.Lesson.VideoNote = note
		}
		return sum
	}

	if concurrency <= 0 {
		concurrency = 1
	}
	var found atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			if e.enrichLesson(gctx, course.Topic, ref.Lesson) {
				found.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	sum.Found = int(found.Load())
	return sum
}

func (e *Enricher) enrichLesson(ctx context.Context, topic string, lesson *coursegen.Lesson) bool {
	best, err := e.FindBest(ctx, topic, lesson.Title)
	if err != nil {
		e.log.Warn("Video search failed for lesson", "lesson", lesson.Title, "error", err)
	}
	if best == nil {
		lesson.YoutubeVideoURL = ""
		lesson.VideoNote = NoteNoMatch
		return false
	}
	lesson.YoutubeVideoURL = best.URL
	lesson.VideoNote = ""
	return true
}

// FindBest returns the top-ranked candidate for a lesson, or nil when nothing
// clears MinRelevance.
func (e *Enricher) FindBest(ctx context.Context, topic, lessonTitle string) (*Candidate, error) {
	if !e.Configured() {
		return nil, nil
	}
	query := SearchQuery(topic, lessonTitle)
	key := cacheKey(query, e.cfg.MaxResults)
	if e.cache != nil {
		hit, err := e.cache.Get(ctx, key)
		if err != nil {
			e.log.Debug("Video cache read failed", "error", err)
		} else if hit != nil {
			return hit, nil
		}
	}

	raw, err := e.search.Search(ctx, query, 2*e.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	ranked := Rank(BaseQuery(topic, lessonTitle), raw, e.cfg.MaxResults)
	if len(ranked) == 0 {
		return nil, nil
	}
	best := ranked[0]
	if best.URL == "" {
		best.URL = WatchURL(best.VideoID)
	}
	if e.cache != nil {
		if err := e.cache.Set(ctx, key, &best, e.cfg.CacheTTL); err != nil {
			e.log.Debug("Video cache write failed", "error", err)
		}
	}
	return &best, nil
}

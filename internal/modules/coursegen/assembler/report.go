package assembler

import (
	"fmt"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
)

// Counter is a per-phase success ratio, e.g. "42/50 (84.0%)".
type Counter struct {
	Succeeded int `json:"succeeded"`
	Total     int `json:"total"`
}

func (c Counter) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Succeeded) * 100 / float64(c.Total)
}

func (c Counter) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%)", c.Succeeded, c.Total, c.Percent())
}

type Stats struct {
	Modules int `json:"modules"`
	Lessons int `json:"lessons"`
	Videos  int `json:"videos"`
}

// Summary is the partial-success view of a generation.
type Summary struct {
	RemoteContent Counter `json:"remoteContent"`
	Videos        Counter `json:"videos"`
	ContentRatio  string  `json:"contentRatio"`
	VideoRatio    string  `json:"videoRatio"`
}

func newSummary(content, videos Counter) Summary {
	return Summary{
		RemoteContent: content,
		Videos:        videos,
		ContentRatio:  content.String(),
		VideoRatio:    videos.String(),
	}
}

// Warnings names each degraded optional capability and its impact.
type Warnings map[string]string

const (
	WarningContentGeneration = "contentGeneration"
	WarningVideos            = "videoRecommendations"
)

const (
	warnNoContentKey = "No content generation API key is configured. Lessons use standard notes instead of AI-generated notes."
	warnNoVideoKey   = "No YouTube API key is configured. Lessons do not include video recommendations."
	warnVideoProbe   = "The YouTube API key could not be validated. Lessons do not include video recommendations."
)

// Report is what the sink stores alongside the course.
type Report struct {
	Stats    Stats    `json:"stats"`
	Summary  Summary  `json:"summary"`
	Warnings Warnings `json:"warnings,omitempty"`
}

func countStats(c *coursegen.CourseAggregate) Stats {
	s := Stats{Modules: len(c.Modules)}
	for _, ref := range c.Lessons() {
		s.Lessons++
		if ref.Lesson.YoutubeVideoURL != "" {
			s.Videos++
		}
	}
	return s
}

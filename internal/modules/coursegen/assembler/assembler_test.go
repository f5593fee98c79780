package assembler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/contentgen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/video"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

type recordingSink struct {
	id     uuid.UUID
	err    error
	calls  int
	course *coursegen.CourseAggregate
	report Report
}

func (s *recordingSink) SaveCourse(_ context.Context, c *coursegen.CourseAggregate, r Report) (uuid.UUID, error) {
	s.calls++
	s.course = c
	s.report = r
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.id, nil
}

type countingGenerator struct {
	calls atomic.Int64
}

func (g *countingGenerator) Generate(_ context.Context, in contentgen.LessonInput) contentgen.Result {
	g.calls.Add(1)
	return contentgen.Result{Content: "# " + in.LessonTitle, Source: contentgen.SourceRemote}
}

func (g *countingGenerator) RemoteAvailable() bool { return true }

type stubSearcher struct {
	probeErr error
}

func (s stubSearcher) Probe(context.Context) error { return s.probeErr }

func (s stubSearcher) Search(_ context.Context, query string, _ int) ([]video.Candidate, error) {
	return []video.Candidate{{VideoID: "v1", Title: query, Description: query}}, nil
}

func pythonBasics() coursegen.CourseParameters {
	return coursegen.CourseParameters{
		Topic:             "Python Basics",
		Level:             coursegen.LevelBeginner,
		LearningGoal:      coursegen.GoalAcademic,
		EstimatedDuration: 4,
		Category:          "Programming",
		OwnerID:           uuid.New(),
	}
}

func TestCounterString(t *testing.T) {
	cases := []struct {
		c    Counter
		want string
	}{
		{Counter{Succeeded: 42, Total: 50}, "42/50 (84.0%)"},
		{Counter{Succeeded: 0, Total: 0}, "0/0 (0.0%)"},
		{Counter{Succeeded: 1, Total: 3}, "1/3 (33.3%)"},
	}
	for _, tc := range cases {
		if got := tc.c.String(); got != tc.want {
			t.Fatalf("Counter.String: want=%q got=%q", tc.want, got)
		}
	}
}

func TestGenerateWithoutCredentials(t *testing.T) {
	id := uuid.New()
	sink := &recordingSink{id: id}
	a := New(nil, nil, nil, nil, sink, Config{})

	res, err := a.Generate(context.Background(), pythonBasics())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.CourseID != id || sink.calls != 1 {
		t.Fatalf("persist: want id=%s calls=1 got id=%s calls=%d", id, res.CourseID, sink.calls)
	}
	c := res.Course
	if c.Title != "Python Basics: A Beginner Academic Course" {
		t.Fatalf("title: got=%q", c.Title)
	}
	if len(c.Modules) != 3 {
		t.Fatalf("modules: want=3 got=%d", len(c.Modules))
	}
	for i, m := range c.Modules {
		if m.Order != i+1 {
			t.Fatalf("module %d order: want=%d got=%d", i, i+1, m.Order)
		}
	}
	for _, ref := range c.Lessons() {
		l := ref.Lesson
		if l.AINotes == "" || l.ContentNote != contentgen.NoteNoCredential {
			t.Fatalf("lesson %q content: notes=%d chars note=%q", l.Title, len(l.AINotes), l.ContentNote)
		}
		if l.YoutubeVideoURL != "" || l.VideoNote != video.NoteNoCredential {
			t.Fatalf("lesson %q video: url=%q note=%q", l.Title, l.YoutubeVideoURL, l.VideoNote)
		}
	}
	if res.Stats != (Stats{Modules: 3, Lessons: 8, Videos: 0}) {
		t.Fatalf("stats: got=%+v", res.Stats)
	}
	if res.Warnings[WarningContentGeneration] == "" || res.Warnings[WarningVideos] == "" {
		t.Fatalf("warnings: got=%v", res.Warnings)
	}
	if res.Summary.ContentRatio != "0/8 (0.0%)" {
		t.Fatalf("content ratio: got=%q", res.Summary.ContentRatio)
	}
	if sink.report.Stats != res.Stats {
		t.Fatalf("sink report stats: want=%+v got=%+v", res.Stats, sink.report.Stats)
	}
}

func TestGenerateWithRemoteAndVideos(t *testing.T) {
	gen := &countingGenerator{}
	videos := video.NewEnricher(nil, stubSearcher{}, nil, video.Config{MaxResults: 3})
	a := New(nil, nil, gen, videos, &recordingSink{id: uuid.New()}, Config{Concurrency: 3})

	res, err := a.Generate(context.Background(), pythonBasics())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if int(gen.calls.Load()) != res.Stats.Lessons {
		t.Fatalf("generator calls: want=%d got=%d", res.Stats.Lessons, gen.calls.Load())
	}
	if res.Stats.Videos != res.Stats.Lessons {
		t.Fatalf("videos: want=%d got=%d", res.Stats.Lessons, res.Stats.Videos)
	}
	if res.Warnings != nil {
		t.Fatalf("warnings: want none got=%v", res.Warnings)
	}
	for _, ref := range res.Course.Lessons() {
		if ref.Lesson.AINotes != "# "+ref.Lesson.Title || ref.Lesson.ContentNote != "" {
			t.Fatalf("lesson %q: notes=%q note=%q", ref.Lesson.Title, ref.Lesson.AINotes, ref.Lesson.ContentNote)
		}
		if ref.Lesson.YoutubeVideoURL != video.WatchURL("v1") {
			t.Fatalf("lesson %q url: got=%q", ref.Lesson.Title, ref.Lesson.YoutubeVideoURL)
		}
	}
}

func TestGenerateProbeFailureWarning(t *testing.T) {
	videos := video.NewEnricher(nil, stubSearcher{probeErr: errors.New("403")}, nil, video.Config{})
	res, err := New(nil, nil, nil, videos, nil, Config{}).Generate(context.Background(), pythonBasics())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Warnings[WarningVideos] != warnVideoProbe {
		t.Fatalf("video warning: got=%q", res.Warnings[WarningVideos])
	}
	for _, ref := range res.Course.Lessons() {
		if ref.Lesson.VideoNote != video.NoteProbeFailed {
			t.Fatalf("lesson %q note: got=%q", ref.Lesson.Title, ref.Lesson.VideoNote)
		}
	}
}

func TestGenerateRejectsMissingFieldsBeforeWork(t *testing.T) {
	gen := &countingGenerator{}
	sink := &recordingSink{}
	a := New(nil, nil, gen, nil, sink, Config{})

	_, err := a.Generate(context.Background(), coursegen.CourseParameters{Topic: "  ", Level: coursegen.LevelBeginner})
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	want := []string{"topic", "learningGoal", "estimatedDuration", "category", "ownerId"}
	if fmt.Sprint(vErr.Missing) != fmt.Sprint(want) {
		t.Fatalf("missing: want=%v got=%v", want, vErr.Missing)
	}
	if gen.calls.Load() != 0 || sink.calls != 0 {
		t.Fatalf("work done before validation: generator=%d sink=%d", gen.calls.Load(), sink.calls)
	}
	if apperr.Classify(err) != apperr.CategoryValidation {
		t.Fatalf("category: got=%s", apperr.Classify(err))
	}
}

func TestGenerateRejectsInvalidEnums(t *testing.T) {
	p := pythonBasics()
	p.Level = "Expert"
	p.LearningGoal = "Fun"
	p.EstimatedDuration = -2

	_, err := New(nil, nil, nil, nil, nil, Config{}).Generate(context.Background(), p)
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	if len(vErr.Missing) != 0 || len(vErr.Invalid) != 3 {
		t.Fatalf("validation: got=%+v", vErr)
	}
	level := vErr.Invalid[0]
	if level.Field != "level" || level.Value != "Expert" || fmt.Sprint(level.Allowed) != "[Beginner Intermediate Advanced]" {
		t.Fatalf("level error: got=%+v", level)
	}
	goal := vErr.Invalid[1]
	if goal.Field != "learningGoal" || fmt.Sprint(goal.Allowed) != "[Career Academic Personal]" {
		t.Fatalf("goal error: got=%+v", goal)
	}
	if vErr.Invalid[2].Field != "estimatedDuration" || vErr.Invalid[2].Reason == "" {
		t.Fatalf("duration error: got=%+v", vErr.Invalid[2])
	}
}

func TestGeneratePropagatesConflict(t *testing.T) {
	sink := &recordingSink{err: fmt.Errorf("insert course: %w", apperr.ErrConflict)}
	_, err := New(nil, nil, nil, nil, sink, Config{}).Generate(context.Background(), pythonBasics())
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.Classify(err) != apperr.CategoryPersistenceConflict {
		t.Fatalf("category: want=%s got=%s", apperr.CategoryPersistenceConflict, apperr.Classify(err))
	}
}

type slowGenerator struct {
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (g *slowGenerator) Generate(_ context.Context, in contentgen.LessonInput) contentgen.Result {
	n := g.inFlight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	g.inFlight.Add(-1)
	return contentgen.Result{Content: in.LessonTitle, Source: contentgen.SourceRemote}
}

func (g *slowGenerator) RemoteAvailable() bool { return true }

func TestContentFanOutRespectsConcurrency(t *testing.T) {
	gen := &slowGenerator{}
	p := pythonBasics()
	p.Level = coursegen.LevelAdvanced
	p.EstimatedDuration = 20

	if _, err := New(nil, nil, gen, nil, nil, Config{Concurrency: 2}).Generate(context.Background(), p); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if peak := gen.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrency: want<=2 got=%d", peak)
	}
}

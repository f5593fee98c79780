// Package assembler runs course generation end to end: validate, plan, fill
// lesson notes, attach videos, persist. Only validation and persistence
// failures reach the caller; remote failures degrade individual lessons.
package assembler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/contentgen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/planner"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/video"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	DefaultConcurrency = 4
	maxConcurrency     = 8
)

// Sink persists a finished course atomically and returns its id.
type Sink interface {
	SaveCourse(ctx context.Context, course *coursegen.CourseAggregate, report Report) (uuid.UUID, error)
}

type Config struct {
	Concurrency int
}

func ConfigFromEnv() Config {
	return Config{Concurrency: envutil.Int("COURSEGEN_LESSON_CONCURRENCY", DefaultConcurrency)}
}

type Result struct {
	CourseID uuid.UUID
	Course   *coursegen.CourseAggregate
	Report
}

type Assembler struct {
	log      *logger.Logger
	planner  *planner.Planner
	content  contentgen.Generator
	videos   *video.Enricher
	sink     Sink
	validate *validator.Validate
	tracer   trace.Tracer
	cfg      Config
}

func New(log *logger.Logger, p *planner.Planner, content contentgen.Generator, videos *video.Enricher, sink Sink, cfg Config) *Assembler {
	if log == nil {
		log = logger.NewNop()
	}
	if p == nil {
		p = planner.New(nil)
	}
	if content == nil {
		content = contentgen.NewFallback(log, nil, 0)
	}
	if videos == nil {
		videos = video.NewEnricher(log, nil, nil, video.Config{})
	}
	switch {
	case cfg.Concurrency <= 0:
		cfg.Concurrency = DefaultConcurrency
	case cfg.Concurrency > maxConcurrency:
		cfg.Concurrency = maxConcurrency
	}
	return &Assembler{
		log:      log.With("service", "CourseAssembler"),
		planner:  p,
		content:  content,
		videos:   videos,
		sink:     sink,
		validate: newValidator(),
		tracer:   otel.Tracer("coursegen/assembler"),
		cfg:      cfg,
	}
}

// Validate reports missing and invalid parameters without doing any work.
func (a *Assembler) Validate(params coursegen.CourseParameters) error {
	return validateParams(a.validate, normalize(params))
}

// Generate builds and saves one course. A nil sink skips persistence and
// returns a zero CourseID.
func (a *Assembler) Generate(ctx context.Context, params coursegen.CourseParameters) (*Result, error) {
	params = normalize(params)
	log := a.log.With("correlation_id", ctxutil.CorrelationID(ctx))

	if err := validateParams(a.validate, params); err != nil {
		log.Warn("Rejected course parameters", "error", err)
		return nil, err
	}

	course := a.plan(ctx, log, params)
	content := a.fillContent(ctx, log, course)
	videos := a.attachVideos(ctx, log, course)

	res := &Result{Course: course}
	res.Stats = countStats(course)
	res.Summary = newSummary(content.counter, videos.counter)
	res.Warnings = warnings(content, videos)

	if a.sink == nil {
		return res, nil
	}
	id, err := a.persist(ctx, log, course, res.Report)
	if err != nil {
		return nil, err
	}
	res.CourseID = id
	log.Info("Course generated",
		"course_id", id,
		"modules", res.Stats.Modules,
		"lessons", res.Stats.Lessons,
		"videos", res.Stats.Videos,
	)
	return res, nil
}

func (a *Assembler) plan(ctx context.Context, log *logger.Logger, params coursegen.CourseParameters) *coursegen.CourseAggregate {
	_, span := a.tracer.Start(ctx, "coursegen.plan")
	defer span.End()

	course := a.planner.Plan(params)
	span.SetAttributes(
		attribute.Int("coursegen.modules", len(course.Modules)),
		attribute.Int("coursegen.lessons", course.LessonCount()),
	)
	log.Info("Course structure planned", "phase", "plan", "modules", len(course.Modules), "lessons", course.LessonCount())
	return course
}

type contentOutcome struct {
	counter         Counter
	remoteAvailable bool
}

func (a *Assembler) fillContent(ctx context.Context, log *logger.Logger, course *coursegen.CourseAggregate) contentOutcome {
	ctx, span := a.tracer.Start(ctx, "coursegen.content")
	defer span.End()

	refs := course.Lessons()
	var remote atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			res := a.content.Generate(gctx, contentgen.LessonInput{
				Topic:        course.Topic,
				ModuleTitle:  ref.Module.Title,
				LessonTitle:  ref.Lesson.Title,
				Level:        course.Level,
				LearningGoal: course.LearningGoal,
			})
			ref.Lesson.AINotes = res.Content
			ref.Lesson.ContentNote = res.Note()
			if !res.Degraded() {
				remote.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := contentOutcome{
		counter:         Counter{Succeeded: int(remote.Load()), Total: len(refs)},
		remoteAvailable: a.content.RemoteAvailable(),
	}
	span.SetAttributes(
		attribute.Int("coursegen.content.remote", out.counter.Succeeded),
		attribute.Int("coursegen.content.total", out.counter.Total),
	)
	log.Info("Lesson notes generated", "phase", "content", "remote", out.counter.String())
	return out
}

type videoOutcome struct {
	counter Counter
	status  video.Status
}

func (a *Assembler) attachVideos(ctx context.Context, log *logger.Logger, course *coursegen.CourseAggregate) videoOutcome {
	ctx, span := a.tracer.Start(ctx, "coursegen.videos")
	defer span.End()

	sum := a.videos.Enrich(ctx, course, a.cfg.Concurrency)
	out := videoOutcome{
		counter: Counter{Succeeded: sum.Found, Total: sum.Attempted},
		status:  sum.Status,
	}
	span.SetAttributes(
		attribute.String("coursegen.videos.status", string(sum.Status)),
		attribute.Int("coursegen.videos.found", sum.Found),
		attribute.Int("coursegen.videos.total", sum.Attempted),
	)
	log.Info("Lesson videos attached", "phase", "videos", "status", string(sum.Status), "found", out.counter.String())
	return out
}

func (a *Assembler) persist(ctx context.Context, log *logger.Logger, course *coursegen.CourseAggregate, report Report) (uuid.UUID, error) {
	ctx, span := a.tracer.Start(ctx, "coursegen.persist")
	defer span.End()

	id, err := a.sink.SaveCourse(ctx, course, report)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		log.Error("Failed to persist generated course", "phase", "persist", "error", err)
		return uuid.Nil, fmt.Errorf("persist course: %w", err)
	}
	span.SetAttributes(attribute.String("coursegen.course_id", id.String()))
	return id, nil
}

func warnings(content contentOutcome, videos videoOutcome) Warnings {
	w := Warnings{}
	if !content.remoteAvailable {
		w[WarningContentGeneration] = warnNoContentKey
	}
	switch videos.status {
	case video.StatusNoCredential:
		w[WarningVideos] = warnNoVideoKey
	case video.StatusProbeFailed:
		w[WarningVideos] = warnVideoProbe
	}
	if len(w) == 0 {
		return nil
	}
	return w
}

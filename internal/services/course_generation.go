package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/assembler"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/contentgen"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// CourseAssembler is satisfied by *assembler.Assembler.
type CourseAssembler interface {
	Generate(ctx context.Context, params coursegen.CourseParameters) (*assembler.Result, error)
}

type GenerateCourseRequest struct {
	Topic             string  `json:"topic"`
	Level             string  `json:"level"`
	LearningGoal      string  `json:"learningGoal"`
	EstimatedDuration float64 `json:"estimatedDuration"`
	Category          string  `json:"category"`
}

type GeneratedCourse struct {
	Course   *types.Course      `json:"course"`
	Stats    assembler.Stats    `json:"stats"`
	Summary  assembler.Summary  `json:"summary"`
	Warnings assembler.Warnings `json:"warnings,omitempty"`
}

type ContentType string

const (
	ContentTypeExamples  ContentType = "examples"
	ContentTypeExercises ContentType = "exercises"
	ContentTypeSummary   ContentType = "summary"
)

var contentTitlePrefix = map[ContentType]string{
	ContentTypeExamples:  "Examples for",
	ContentTypeExercises: "Exercises for",
	ContentTypeSummary:   "Summary of",
}

type AdditionalContentRequest struct {
	ContentID   string `json:"contentId"`
	LessonID    string `json:"lessonId"`
	ContentType string `json:"contentType"`
}

type AdditionalContent struct {
	ContentType ContentType       `json:"contentType"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	ContentNote string            `json:"contentNote,omitempty"`
	Source      contentgen.Source `json:"source"`
}

type QuizResponse struct {
	Message   string `json:"message"`
	Questions []any  `json:"questions"`
}

type CourseGenerationService interface {
	Generate(ctx context.Context, req GenerateCourseRequest) (*GeneratedCourse, error)
	GenerateAdditionalContent(ctx context.Context, req AdditionalContentRequest) (*AdditionalContent, error)
	GenerateQuiz(ctx context.Context) QuizResponse
}

type courseGenerationService struct {
	log        *logger.Logger
	assembler  CourseAssembler
	content    contentgen.Generator
	courseRepo repos.CourseRepo
}

func NewCourseGenerationService(log *logger.Logger, asm CourseAssembler, content contentgen.Generator, courseRepo repos.CourseRepo) CourseGenerationService {
	return &courseGenerationService{
		log:        log.With("service", "CourseGenerationService"),
		assembler:  asm,
		content:    content,
		courseRepo: courseRepo,
	}
}

// Generate runs the pipeline for the caller and returns the persisted course.
func (s *courseGenerationService) Generate(ctx context.Context, req GenerateCourseRequest) (*GeneratedCourse, error) {
	ownerID := ctxutil.UserID(ctx)
	if ownerID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	res, err := s.assembler.Generate(ctx, coursegen.CourseParameters{
		Topic:             req.Topic,
		Level:             coursegen.Level(strings.TrimSpace(req.Level)),
		LearningGoal:      coursegen.LearningGoal(strings.TrimSpace(req.LearningGoal)),
		EstimatedDuration: req.EstimatedDuration,
		Category:          req.Category,
		OwnerID:           ownerID,
	})
	if err != nil {
		return nil, err
	}
	out := &GeneratedCourse{
		Stats:    res.Stats,
		Summary:  res.Summary,
		Warnings: res.Warnings,
	}
	course, err := getCourse(dbctx.Context{Ctx: ctx}, s.courseRepo, res.CourseID)
	if err != nil {
		// The course is already committed, so answer from the assembled copy.
		s.log.Error("Reload of generated course failed; returning assembled course",
			"course_id", res.CourseID, "owner_id", ownerID, "error", err)
		course, err = assembledCourse(res)
		if err != nil {
			return nil, fmt.Errorf("reload generated course %s: %w", res.CourseID, err)
		}
		out.Warnings = withWarning(res.Warnings, WarningCourseReload, warnCourseReload)
	}
	out.Course = course
	return out, nil
}

const (
	WarningCourseReload = "courseReload"
	warnCourseReload    = "The course was saved but could not be reloaded. Open it from your courses to get module and lesson ids."
)

// assembledCourse nests the rows built from the aggregate under the persisted
// course id. Module and lesson ids are left empty since the stored ones are
// not known here.
func assembledCourse(res *assembler.Result) (*types.Course, error) {
	course, modules, lessons, err := buildCourseRows(res.Course, res.Report)
	if err != nil {
		return nil, err
	}
	course.ID = res.CourseID
	byModule := make(map[uuid.UUID]*types.CourseModule, len(modules))
	for _, m := range modules {
		byModule[m.ID] = m
	}
	for _, l := range lessons {
		if m := byModule[l.ModuleID]; m != nil {
			m.Lessons = append(m.Lessons, l)
		}
		l.ID, l.ModuleID = uuid.Nil, uuid.Nil
	}
	for _, m := range modules {
		m.ID = uuid.Nil
		m.CourseID = course.ID
	}
	course.Modules = modules
	return course, nil
}

func withWarning(w assembler.Warnings, key, msg string) assembler.Warnings {
	out := make(assembler.Warnings, len(w)+1)
	for k, v := range w {
		out[k] = v
	}
	out[key] = msg
	return out
}

// GenerateAdditionalContent produces examples, exercises or a summary for one
// stored lesson. Remote failures degrade to local content with a note.
func (s *courseGenerationService) GenerateAdditionalContent(ctx context.Context, req AdditionalContentRequest) (*AdditionalContent, error) {
	courseID, lessonID, kind, err := parseAdditionalContentRequest(req)
	if err != nil {
		return nil, err
	}
	course, err := getCourse(dbctx.Context{Ctx: ctx}, s.courseRepo, courseID)
	if err != nil {
		return nil, err
	}
	module, lesson := findLesson(course, lessonID)
	if lesson == nil {
		return nil, fmt.Errorf("%w: lesson %s", apperr.ErrNotFound, lessonID)
	}

	title := contentTitlePrefix[kind] + " " + lesson.Title
	res := s.content.Generate(ctx, contentgen.LessonInput{
		Topic:        course.Topic,
		ModuleTitle:  module.Title,
		LessonTitle:  title,
		Level:        coursegen.Level(course.Level),
		LearningGoal: coursegen.LearningGoal(course.LearningGoal),
	})
	s.log.Info("Additional content generated",
		"course_id", course.ID,
		"lesson_id", lesson.ID,
		"content_type", string(kind),
		"source", string(res.Source),
	)
	return &AdditionalContent{
		ContentType: kind,
		Title:       title,
		Content:     res.Content,
		ContentNote: res.Note(),
		Source:      res.Source,
	}, nil
}

func (s *courseGenerationService) GenerateQuiz(context.Context) QuizResponse {
	return QuizResponse{Message: contentgen.QuizDisabledMessage, Questions: []any{}}
}

func parseAdditionalContentRequest(req AdditionalContentRequest) (uuid.UUID, uuid.UUID, ContentType, error) {
	vErr := &apperr.ValidationError{}
	parseID := func(field, raw string) uuid.UUID {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			vErr.Missing = append(vErr.Missing, field)
			return uuid.Nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			vErr.Invalid = append(vErr.Invalid, apperr.FieldError{Field: field, Value: raw, Reason: "must be a uuid"})
		}
		return id
	}
	courseID := parseID("contentId", req.ContentID)
	lessonID := parseID("lessonId", req.LessonID)

	kind := ContentType(strings.ToLower(strings.TrimSpace(req.ContentType)))
	if _, ok := contentTitlePrefix[kind]; !ok {
		vErr.Invalid = append(vErr.Invalid, apperr.FieldError{
			Field:   "contentType",
			Value:   req.ContentType,
			Allowed: []string{string(ContentTypeExamples), string(ContentTypeExercises), string(ContentTypeSummary)},
		})
	}
	if !vErr.Empty() {
		return uuid.Nil, uuid.Nil, "", vErr
	}
	return courseID, lessonID, kind, nil
}

func findLesson(course *types.Course, lessonID uuid.UUID) (*types.CourseModule, *types.Lesson) {
	for _, m := range course.Modules {
		if m == nil {
			continue
		}
		for _, l := range m.Lessons {
			if l != nil && l.ID == lessonID {
				return m, l
			}
		}
	}
	return nil, nil
}

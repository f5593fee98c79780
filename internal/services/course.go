package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CoursePage struct {
	Courses    []*types.Course `json:"courses"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// CourseUpdate is a partial update; nil fields are left alone.
type CourseUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type CourseService interface {
	Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error)
	List(ctx context.Context, q repos.CourseQuery) (*CoursePage, error)
	Update(ctx context.Context, courseID uuid.UUID, in CourseUpdate) (*types.Course, error)
	Delete(ctx context.Context, courseID uuid.UUID) error
}

type courseService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
}

func NewCourseService(log *logger.Logger, courseRepo repos.CourseRepo) CourseService {
	return &courseService{
		log:        log.With("service", "CourseService"),
		courseRepo: courseRepo,
	}
}

func (cs *courseService) Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	return getCourse(dbctx.Context{Ctx: ctx}, cs.courseRepo, courseID)
}

func (cs *courseService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", apperr.ErrInvalidArgument)
	}
	courses, err := cs.courseRepo.GetByUserIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{ownerID})
	if err != nil {
		return nil, fmt.Errorf("list user courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) List(ctx context.Context, q repos.CourseQuery) (*CoursePage, error) {
	q = q.Normalize()
	courses, total, err := cs.courseRepo.List(dbctx.Context{Ctx: ctx}, q)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &CoursePage{
		Courses:    courses,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (cs *courseService) Update(ctx context.Context, courseID uuid.UUID, in CourseUpdate) (*types.Course, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := getOwnedCourse(dbc, cs.courseRepo, courseID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, &apperr.ValidationError{Invalid: []apperr.FieldError{{Field: "title", Reason: "must not be empty"}}}
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if len(fields) > 0 {
		if err := cs.courseRepo.UpdateFields(dbc, courseID, fields); err != nil {
			return nil, fmt.Errorf("update course: %w", err)
		}
		cs.log.Info("Course updated", "course_id", courseID, "fields", len(fields))
	}
	return getCourse(dbc, cs.courseRepo, courseID)
}

func (cs *courseService) Delete(ctx context.Context, courseID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := getOwnedCourse(dbc, cs.courseRepo, courseID); err != nil {
		return err
	}
	if err := cs.courseRepo.SoftDeleteByIDs(dbc, []uuid.UUID{courseID}); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	cs.log.Info("Course deleted", "course_id", courseID)
	return nil
}

func getCourse(dbc dbctx.Context, repo repos.CourseRepo, courseID uuid.UUID) (*types.Course, error) {
	if courseID == uuid.Nil {
		return nil, fmt.Errorf("%w: course id required", apperr.ErrInvalidArgument)
	}
	found, err := repo.GetByIDs(dbc, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}
	return found[0], nil
}

// getOwnedCourse loads a course the caller owns. Anonymous callers get
// ErrUnauthorized, other owners ErrForbidden.
func getOwnedCourse(dbc dbctx.Context, repo repos.CourseRepo, courseID uuid.UUID) (*types.Course, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	course, err := getCourse(dbc, repo, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, fmt.Errorf("%w: course belongs to another user", apperr.ErrForbidden)
	}
	return course, nil
}

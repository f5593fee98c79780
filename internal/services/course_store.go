package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/assembler"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// CourseStore saves generated courses. It is the assembler's persistence sink.
type CourseStore struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	moduleRepo repos.CourseModuleRepo
	lessonRepo repos.LessonRepo
}

var _ assembler.Sink = (*CourseStore)(nil)

func NewCourseStore(db *gorm.DB, log *logger.Logger, r repos.Repos) *CourseStore {
	return &CourseStore{
		db:         db,
		log:        log.With("service", "CourseStore"),
		courseRepo: r.Course,
		moduleRepo: r.CourseModule,
		lessonRepo: r.Lesson,
	}
}

type courseMetadata struct {
	CreatedWith string `json:"createdWith"`
	assembler.Report
}

// SaveCourse writes course, modules and lessons in one transaction.
func (s *CourseStore) SaveCourse(ctx context.Context, agg *coursegen.CourseAggregate, report assembler.Report) (uuid.UUID, error) {
	course, modules, lessons, err := buildCourseRows(agg, report)
	if err != nil {
		return uuid.Nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.courseRepo.Create(dbc, []*types.Course{course}); err != nil {
			return fmt.Errorf("insert course: %w", err)
		}
		if _, err := s.moduleRepo.Create(dbc, modules); err != nil {
			return fmt.Errorf("insert course modules: %w", err)
		}
		if _, err := s.lessonRepo.Create(dbc, lessons); err != nil {
			return fmt.Errorf("insert lessons: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Debug("Course saved", "course_id", course.ID, "modules", len(modules), "lessons", len(lessons))
	return course.ID, nil
}

// buildCourseRows assigns ids up front so children can reference parents
// inside the transaction.
func buildCourseRows(agg *coursegen.CourseAggregate, report assembler.Report) (*types.Course, []*types.CourseModule, []*types.Lesson, error) {
	if agg == nil {
		return nil, nil, nil, fmt.Errorf("course aggregate required")
	}
	meta, err := json.Marshal(courseMetadata{CreatedWith: types.CreatedWithPipeline, Report: report})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode course metadata: %w", err)
	}
	course := &types.Course{
		ID:                uuid.New(),
		OwnerID:           agg.OwnerID,
		Title:             agg.Title,
		Description:       agg.Description,
		Topic:             agg.Topic,
		Level:             string(agg.Level),
		LearningGoal:      string(agg.LearningGoal),
		EstimatedDuration: agg.EstimatedDuration,
		Category:          agg.Category,
		CreatedWith:       types.CreatedWithPipeline,
		Metadata:          datatypes.JSON(meta),
	}

	modules := make([]*types.CourseModule, 0, len(agg.Modules))
	var lessons []*types.Lesson
	for i, m := range agg.Modules {
		if m == nil {
			continue
		}
		pos := m.Order
		if pos <= 0 {
			pos = i + 1
		}
		row := &types.CourseModule{
			ID:          uuid.New(),
			CourseID:    course.ID,
			Position:    pos,
			Title:       m.Title,
			Description: m.Description,
		}
		modules = append(modules, row)
		for j, l := range m.Lessons {
			if l == nil {
				continue
			}
			lessons = append(lessons, &types.Lesson{
				ID:              uuid.New(),
				ModuleID:        row.ID,
				Position:        j + 1,
				Title:           l.Title,
				Summary:         l.Summary,
				Content:         l.Content,
				AINotes:         l.AINotes,
				ContentNote:     l.ContentNote,
				YoutubeVideoURL: l.YoutubeVideoURL,
				VideoNote:       l.VideoNote,
				Duration:        l.Duration,
			})
		}
	}
	return course, modules, lessons, nil
}

package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	GetByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := r.conn(dbc).Omit(clause.Associations).CreateInBatches(&lessons, 100).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).Where("id IN ?", lessonIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByModuleIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).
		Where("module_id IN ?", moduleIDs).
		Order("module_id ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error)
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseModule, error)
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return &courseModuleRepo{db: db, log: baseLog.With("repo", "CourseModuleRepo")}
}

func (r *courseModuleRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *courseModuleRepo) Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error) {
	if len(modules) == 0 {
		return []*types.CourseModule{}, nil
	}
	if err := r.conn(dbc).Omit(clause.Associations).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseModule, error) {
	var results []*types.CourseModule
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

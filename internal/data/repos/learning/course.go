package learning

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
	// MaxPage keeps (Page-1)*Limit inside an int32 offset.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// CourseQuery filters and pages the public course listing. Zero values mean
// "no filter".
type CourseQuery struct {
	Level          string
	Category       string
	LearningGoal   string
	Search         string
	ExcludeOwnerID uuid.UUID
	Sort           string
	Order          string
	Page           int
	Limit          int
}

var sortColumns = map[string]string{
	"createdAt":         "created_at",
	"title":             "title",
	"estimatedDuration": "estimated_duration",
	"level":             "level",
}

// Normalize applies defaults and clamps paging.
func (q CourseQuery) Normalize() CourseQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if _, ok := sortColumns[q.Sort]; !ok {
		q.Sort = "createdAt"
	}
	if q.Order != "asc" {
		q.Order = "desc"
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.Course, error)
	List(dbc dbctx.Context, q CourseQuery) ([]*types.Course, int64, error)
	UpdateFields(dbc dbctx.Context, courseID uuid.UUID, fields map[string]any) error
	SoftDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

// Create writes course rows only; modules and lessons go through their own repos.
func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := r.conn(dbc).Omit(clause.Associations).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func withOutline(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Modules", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") })
}

// GetByIDs loads courses with their modules and lessons in order.
func (r *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := withOutline(r.conn(dbc)).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := withOutline(r.conn(dbc)).
		Where("owner_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) List(dbc dbctx.Context, q CourseQuery) ([]*types.Course, int64, error) {
	q = q.Normalize()
	base := r.conn(dbc).Model(&types.Course{})
	if q.Level != "" {
		base = base.Where("level = ?", q.Level)
	}
	if q.Category != "" {
		base = base.Where("category = ?", q.Category)
	}
	if q.LearningGoal != "" {
		base = base.Where("learning_goal = ?", q.LearningGoal)
	}
	if q.Search != "" {
		like := containsPattern(strings.ToLower(q.Search))
		base = base.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(topic) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if q.ExcludeOwnerID != uuid.Nil {
		base = base.Where("owner_id <> ?", q.ExcludeOwnerID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Course
	err := base.Session(&gorm.Session{}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumns[q.Sort]}, Desc: q.Order == "desc"}).
		Order("id ASC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches s literally anywhere in a column, under ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, courseID uuid.UUID, fields map[string]any) error {
	if courseID == uuid.Nil || len(fields) == 0 {
		return nil
	}
	return r.conn(dbc).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Updates(fields).Error
}

func (r *courseRepo) SoftDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return r.conn(dbc).
		Where("id IN ?", courseIDs).
		Delete(&types.Course{}).Error
}

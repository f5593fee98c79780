package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos/learning"
	"github.com/yungbote/coursegen-backend/internal/data/repos/user"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type CourseModuleRepo = learning.CourseModuleRepo
type LessonRepo = learning.LessonRepo
type CourseQuery = learning.CourseQuery

type Repos struct {
	User         UserRepo
	Course       CourseRepo
	CourseModule CourseModuleRepo
	Lesson       LessonRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:         user.NewUserRepo(db, log),
		Course:       learning.NewCourseRepo(db, log),
		CourseModule: learning.NewCourseModuleRepo(db, log),
		Lesson:       learning.NewLessonRepo(db, log),
	}
}

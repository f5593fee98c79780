package domain

import (
	"github.com/yungbote/coursegen-backend/internal/domain/learning"
	"github.com/yungbote/coursegen-backend/internal/domain/user"
)

type User = user.User

type Course = learning.Course
type CourseModule = learning.CourseModule
type Lesson = learning.Lesson

const CreatedWithPipeline = learning.CreatedWithPipeline

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Course{},
		&CourseModule{},
		&Lesson{},
	}
}

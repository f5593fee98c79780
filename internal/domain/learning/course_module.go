package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModule struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_course_module_position" json:"courseId"`
	Position    int       `gorm:"column:position;not null;uniqueIndex:idx_course_module_position" json:"order"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	Lessons []*Lesson `gorm:"foreignKey:ModuleID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (CourseModule) TableName() string { return "course_module" }

func (m *CourseModule) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain/user"
)

const CreatedWithPipeline = "coursegen-pipeline"

type Course struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_id" json:"ownerId"`
	Owner   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	Title             string  `gorm:"column:title;not null" json:"title"`
	Description       string  `gorm:"column:description;type:text" json:"description"`
	Topic             string  `gorm:"column:topic;not null" json:"topic"`
	Level             string  `gorm:"column:level;not null;index" json:"level"`
	LearningGoal      string  `gorm:"column:learning_goal;not null;index" json:"learningGoal"`
	EstimatedDuration float64 `gorm:"column:estimated_duration;not null" json:"estimatedDuration"`
	Category          string  `gorm:"column:category;index" json:"category"`
	CreatedWith       string  `gorm:"column:created_with" json:"createdWith"`
	BannerURL         string  `gorm:"column:banner_url" json:"bannerUrl,omitempty"`

	// stats, summary and warnings recorded at generation time
	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	Modules []*CourseModule `gorm:"foreignKey:CourseID;references:ID" json:"modules,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

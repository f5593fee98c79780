package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_lesson_position" json:"moduleId"`
	Position int       `gorm:"column:position;not null;uniqueIndex:idx_lesson_position" json:"position"`

	Title           string `gorm:"column:title;not null" json:"title"`
	Summary         string `gorm:"column:summary;type:text" json:"summary"`
	Content         string `gorm:"column:content;type:text" json:"content"`
	AINotes         string `gorm:"column:ai_notes;type:text" json:"aiNotes,omitempty"`
	ContentNote     string `gorm:"column:content_note" json:"contentNote,omitempty"`
	YoutubeVideoURL string `gorm:"column:youtube_video_url" json:"youtubeVideoUrl,omitempty"`
	VideoNote       string `gorm:"column:video_note" json:"videoNote,omitempty"`
	Duration        int    `gorm:"column:duration;not null;default:0" json:"duration"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursegen-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course with one module holding lessonCount lessons.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title, level string, lessonCount int) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Title:             title,
		Description:       title + " description",
		Topic:             title,
		Level:             level,
		LearningGoal:      "Academic",
		EstimatedDuration: 4,
		Category:          "Programming",
		CreatedWith:       types.CreatedWithPipeline,
	}
	if err := tx.WithContext(ctx).Omit("Modules").Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	m := &types.CourseModule{ID: uuid.New(), CourseID: c.ID, Position: 1, Title: "Module 1"}
	if err := tx.WithContext(ctx).Omit("Lessons").Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	for i := lessonCount; i >= 1; i-- {
		l := &types.Lesson{ID: uuid.New(), ModuleID: m.ID, Position: i, Title: "Lesson", Duration: 30}
		if err := tx.WithContext(ctx).Create(l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
	}
	return c
}

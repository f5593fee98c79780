// Package coursegen holds the course aggregate produced by the generation
// pipeline and the parameters that drive it.
package coursegen

import (
	"github.com/google/uuid"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

func (l Level) Valid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

type LearningGoal string

const (
	GoalCareer   LearningGoal = "Career"
	GoalAcademic LearningGoal = "Academic"
	GoalPersonal LearningGoal = "Personal"
)

var LearningGoals = []LearningGoal{GoalCareer, GoalAcademic, GoalPersonal}

func (g LearningGoal) Valid() bool {
	for _, v := range LearningGoals {
		if g == v {
			return true
		}
	}
	return false
}

// CourseParameters is the generation request. Validation happens in the
// assembler before any planning.
type CourseParameters struct {
	Topic             string       `json:"topic" validate:"required"`
	Level             Level        `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	LearningGoal      LearningGoal `json:"learningGoal" validate:"required,oneof=Career Academic Personal"`
	EstimatedDuration float64      `json:"estimatedDuration" validate:"required,gt=0"`
	Category          string       `json:"category" validate:"required"`
	OwnerID           uuid.UUID    `json:"ownerId" validate:"required"`
}

type CourseAggregate struct {
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Topic             string       `json:"topic"`
	Level             Level        `json:"level"`
	LearningGoal      LearningGoal `json:"learningGoal"`
	EstimatedDuration float64      `json:"estimatedDuration"`
	Category          string       `json:"category"`
	OwnerID           uuid.UUID    `json:"ownerId"`
	Modules           []*Module    `json:"modules"`
}

type Module struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Lessons     []*Lesson `json:"lessons"`
}

type Lesson struct {
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	Content         string `json:"content"`
	AINotes         string `json:"aiNotes,omitempty"`
	ContentNote     string `json:"contentNote,omitempty"`
	YoutubeVideoURL string `json:"youtubeVideoUrl,omitempty"`
	VideoNote       string `json:"videoNote,omitempty"`
	Duration        int    `json:"duration"`
}

// LessonRef points at one lesson together with its module, in course order.
type LessonRef struct {
	Module *Module
	Lesson *Lesson
}

// Lessons flattens the course in module order then lesson order.
func (c *CourseAggregate) Lessons() []LessonRef {
	if c == nil {
		return nil
	}
	var out []LessonRef
	for _, m := range c.Modules {
		if m == nil {
			continue
		}
		for _, l := range m.Lessons {
			if l != nil {
				out = append(out, LessonRef{Module: m, Lesson: l})
			}
		}
	}
	return out
}

func (c *CourseAggregate) LessonCount() int {
	return len(c.Lessons())
}

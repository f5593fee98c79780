// Package planner turns course parameters into a course skeleton: modules and
// lessons with template content, no enrichment. Output is deterministic for
// identical input.
package planner

import (
	"math"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/catalog"
)

const (
	minModules = 3
	maxModules = 10
)

type Planner struct {
	cat *catalog.Catalog
}

// New uses the embedded catalog when cat is nil.
func New(cat *catalog.Catalog) *Planner {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Planner{cat: cat}
}

// ModuleCount: base = max(3, ceil(hours/2)), then Beginner caps at 5,
// Intermediate adds 1 and caps at 7, Advanced adds 2 and caps at 10.
func ModuleCount(level coursegen.Level, estimatedDuration float64) int {
	// Clamp before converting; out-of-range float to int is not portable.
	base := minModules
	if h := math.Ceil(estimatedDuration / 2); h > float64(base) {
		base = int(math.Min(h, maxModules))
	}
	switch level {
	case coursegen.LevelIntermediate:
		return min(base+1, 7)
	case coursegen.LevelAdvanced:
		return min(base+2, 10)
	default:
		return min(base, 5)
	}
}

// Plan expects validated parameters.
func (p *Planner) Plan(params coursegen.CourseParameters) *coursegen.CourseAggregate {
	vars := catalog.Vars{Topic: params.Topic, Level: params.Level}
	titles := p.cat.Titles[params.LearningGoal]

	course := &coursegen.CourseAggregate{
		Title:             vars.Render(titles.Title),
		Description:       vars.Render(titles.Description),
		Topic:             params.Topic,
		Level:             params.Level,
		LearningGoal:      params.LearningGoal,
		EstimatedDuration: params.EstimatedDuration,
		Category:          params.Category,
		OwnerID:           params.OwnerID,
	}

	count := ModuleCount(params.Level, params.EstimatedDuration)
	for i := 0; i < count; i++ {
		var m *coursegen.Module
		if i < len(p.cat.Modules) {
			m = templatedModule(p.cat.Modules[i], params.Level, vars)
		} else {
			spec := p.cat.Specializations
			v := vars
			v.Specialization = spec.Suffix(i - len(p.cat.Modules))
			m = &coursegen.Module{
				Title:       v.Render(spec.Title),
				Description: v.Render(spec.Description),
				Lessons:     renderLessons(spec.Lessons, v),
			}
		}
		m.Order = i + 1
		course.Modules = append(course.Modules, m)
	}
	return course
}

func templatedModule(t catalog.ModuleTemplate, level coursegen.Level, vars catalog.Vars) *coursegen.Module {
	return &coursegen.Module{
		Title:       vars.Render(t.Title),
		Description: vars.Render(t.Description),
		Lessons:     renderLessons(t.Lessons[:t.LessonCount(level)], vars),
	}
}

func renderLessons(templates []catalog.LessonTemplate, vars catalog.Vars) []*coursegen.Lesson {
	out := make([]*coursegen.Lesson, 0, len(templates))
	for _, lt := range templates {
		out = append(out, &coursegen.Lesson{
			Title:    vars.Render(lt.Title),
			Summary:  vars.Render(lt.Summary),
			Content:  vars.Render(lt.Content),
			Duration: lt.Duration,
		})
	}
	return out
}

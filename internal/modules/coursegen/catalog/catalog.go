// Package catalog holds the module and lesson templates the structure planner
// draws from. The default catalog is embedded; a YAML file with the same shape
// can replace it.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
)

//go:embed templates.yaml
var defaultTemplates []byte

type TitleTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type LessonTemplate struct {
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary"`
	Content  string `yaml:"content"`
	Duration int    `yaml:"duration"`
}

type ModuleTemplate struct {
	Key         string                  `yaml:"key"`
	Title       string                  `yaml:"title"`
	Description string                  `yaml:"description"`
	Declared    map[coursegen.Level]int `yaml:"lessonCount"`
	Lessons     []LessonTemplate        `yaml:"lessons"`
}

// LessonCount is the declared count for level, capped by the templates available.
func (m ModuleTemplate) LessonCount(level coursegen.Level) int {
	n := m.Declared[level]
	if n > len(m.Lessons) {
		n = len(m.Lessons)
	}
	if n < 0 {
		n = 0
	}
	return n
}

type SpecializationSet struct {
	Suffixes    []string         `yaml:"suffixes"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Lessons     []LessonTemplate `yaml:"lessons"`
}

// Suffix cycles through the specialization suffixes.
func (s SpecializationSet) Suffix(i int) string {
	if len(s.Suffixes) == 0 {
		return ""
	}
	return s.Suffixes[i%len(s.Suffixes)]
}

type Catalog struct {
	Titles          map[coursegen.LearningGoal]TitleTemplate `yaml:"titles"`
	Modules         []ModuleTemplate                         `yaml:"modules"`
	Specializations SpecializationSet                        `yaml:"specializations"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultTemplates)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded templates invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile parses a catalog file; an empty path returns the embedded catalog.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("catalog: nil")
	}
	for _, g := range coursegen.LearningGoals {
		t, ok := c.Titles[g]
		if !ok || strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("catalog: missing title template for goal %s", g)
		}
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("catalog: no module templates")
	}
	for i, m := range c.Modules {
		if strings.TrimSpace(m.Title) == "" {
			return fmt.Errorf("catalog: module %d has no title", i)
		}
		if len(m.Lessons) == 0 {
			return fmt.Errorf("catalog: module %q has no lesson templates", m.Title)
		}
		for _, lvl := range coursegen.Levels {
			if m.LessonCount(lvl) < 1 {
				return fmt.Errorf("catalog: module %q declares no lessons for %s", m.Title, lvl)
			}
		}
	}
	if len(c.Specializations.Suffixes) == 0 {
		return fmt.Errorf("catalog: no specialization suffixes")
	}
	if len(c.Specializations.Lessons) != 3 {
		return fmt.Errorf("catalog: specialization modules need exactly 3 lesson templates, got %d", len(c.Specializations.Lessons))
	}
	return nil
}

// Vars are the placeholder values substituted into templates.
type Vars struct {
	Topic          string
	Level          coursegen.Level
	Specialization string
}

func (v Vars) Render(s string) string {
	return strings.NewReplacer(
		"{topic}", v.Topic,
		"{level}", string(v.Level),
		"{specialization}", v.Specialization,
	).Replace(s)
}

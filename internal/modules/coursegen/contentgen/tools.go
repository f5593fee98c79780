package contentgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/planner"
)

const QuizDisabledMessage = "Quiz generation has been disabled in this version. The application now focuses on providing detailed educational content without quizzes."

type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is a function the model may call. Parameters is its JSON schema.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         ToolFunc
}

type compiledTool struct {
	Tool
	schema *jsonschema.Schema
}

// ToolRegistry maps tool names to their implementations and compiled schemas.
type ToolRegistry struct {
	byName map[string]*compiledTool
	defs   []goopenai.Tool
}

func NewToolRegistry(tools ...Tool) (*ToolRegistry, error) {
	r := &ToolRegistry{byName: make(map[string]*compiledTool, len(tools))}
	for _, t := range tools {
		if t.Name == "" || t.Run == nil {
			return nil, fmt.Errorf("tool %q: name and implementation required", t.Name)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("tool %q registered twice", t.Name)
		}
		sch, err := compileSchema(t.Name, t.Parameters)
		if err != nil {
			return nil, err
		}
		r.byName[t.Name] = &compiledTool{Tool: t, schema: sch}
		r.defs = append(r.defs, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return r, nil
}

func compileSchema(name string, params map[string]any) (*jsonschema.Schema, error) {
	// round-trip so the compiler sees plain JSON values
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("tool %q: marshal schema: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("tool %q: parse schema: %w", name, err)
	}
	url := fmt.Sprintf("tool://%s.json", name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("tool %q: add schema: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile schema: %w", name, err)
	}
	return sch, nil
}

func (r *ToolRegistry) Definitions() []goopenai.Tool {
	if r == nil {
		return nil
	}
	return r.defs
}

func (r *ToolRegistry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d.Function.Name)
	}
	return out
}

// Execute validates rawArgs against the tool schema, runs the tool and returns
// its JSON-encoded result.
func (r *ToolRegistry) Execute(ctx context.Context, name, rawArgs string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	t, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if strings.TrimSpace(rawArgs) == "" {
		rawArgs = "{}"
	}
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(rawArgs))
	if err != nil {
		return "", fmt.Errorf("tool %s: arguments are not valid JSON: %w", name, err)
	}
	if err := t.schema.Validate(inst); err != nil {
		return "", fmt.Errorf("tool %s: invalid arguments: %w", name, err)
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "", fmt.Errorf("tool %s: decode arguments: %w", name, err)
	}
	out, err := t.Run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("tool %s: encode result: %w", name, err)
	}
	return string(raw), nil
}

var (
	levelEnum = []any{"Beginner", "Intermediate", "Advanced"}
	goalEnum  = []any{"Career", "Academic", "Personal"}
)

// DefaultTools are the lesson, course-structure and quiz tools, executed locally.
func DefaultTools(p *planner.Planner) []Tool {
	if p == nil {
		p = planner.New(nil)
	}
	return []Tool{
		{
			Name:        "generateLessonContent",
			Description: "Generates detailed educational content for a specific lesson within a course module.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"lessonTitle": map[string]any{"type": "string", "description": "The title of the lesson"},
					"moduleTitle": map[string]any{"type": "string", "description": "The title of the module this lesson belongs to"},
					"courseTopic": map[string]any{"type": "string", "description": "The main topic of the course"},
					"difficulty":  map[string]any{"type": "string", "description": "The difficulty level of the course", "enum": levelEnum},
					"goal":        map[string]any{"type": "string", "description": "The learning goal of the course", "enum": goalEnum},
				},
				"required": []any{"lessonTitle", "moduleTitle", "courseTopic", "difficulty"},
			},
			Run: func(_ context.Context, args map[string]any) (any, error) {
				in := LessonInput{
					Topic:        argString(args, "courseTopic"),
					ModuleTitle:  argString(args, "moduleTitle"),
					LessonTitle:  argString(args, "lessonTitle"),
					Level:        coursegen.Level(argString(args, "difficulty")),
					LearningGoal: coursegen.LearningGoal(argString(args, "goal")),
				}
				return map[string]any{"title": in.LessonTitle, "content": RenderLocal(in)}, nil
			},
		},
		{
			Name:        "generateCourseStructure",
			Description: "Generates a structured course outline with modules and lessons based on the provided parameters.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic":      map[string]any{"type": "string", "description": "The main subject or topic of the course"},
					"difficulty": map[string]any{"type": "string", "description": "The difficulty level of the course", "enum": levelEnum},
					"goal":       map[string]any{"type": "string", "description": "The learning goal or purpose of the course", "enum": goalEnum},
					"duration":   map[string]any{"type": "number", "description": "The estimated duration to complete the course, in hours", "exclusiveMinimum": 0},
				},
				"required": []any{"topic", "difficulty", "goal", "duration"},
			},
			Run: func(_ context.Context, args map[string]any) (any, error) {
				hours, _ := args["duration"].(float64)
				topic := argString(args, "topic")
				course := p.Plan(coursegen.CourseParameters{
					Topic:             topic,
					Level:             coursegen.Level(argString(args, "difficulty")),
					LearningGoal:      coursegen.LearningGoal(argString(args, "goal")),
					EstimatedDuration: hours,
					Category:          topic,
				})
				return outline(course), nil
			},
		},
		{
			Name:        "generateQuizQuestions",
			Description: "Generates quiz questions with answers for a specific lesson or module.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"lessonTitle":       map[string]any{"type": "string", "description": "The title of the lesson"},
					"lessonContent":     map[string]any{"type": "string", "description": "The content of the lesson to base questions on"},
					"difficulty":        map[string]any{"type": "string", "description": "The difficulty level of the questions", "enum": levelEnum},
					"numberOfQuestions": map[string]any{"type": "integer", "description": "The number of questions to generate", "minimum": 0},
				},
				"required": []any{"lessonTitle", "difficulty", "numberOfQuestions"},
			},
			Run: func(_ context.Context, _ map[string]any) (any, error) {
				return map[string]any{"questions": []any{}, "message": QuizDisabledMessage}, nil
			},
		},
	}
}

func outline(c *coursegen.CourseAggregate) map[string]any {
	modules := make([]map[string]any, 0, len(c.Modules))
	for _, m := range c.Modules {
		lessons := make([]map[string]any, 0, len(m.Lessons))
		for _, l := range m.Lessons {
			lessons = append(lessons, map[string]any{"title": l.Title, "summary": l.Summary, "duration": l.Duration})
		}
		modules = append(modules, map[string]any{
			"title":       m.Title,
			"description": m.Description,
			"order":       m.Order,
			"lessons":     lessons,
		})
	}
	return map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"level":       c.Level,
		"category":    c.Category,
		"modules":     modules,
	}
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

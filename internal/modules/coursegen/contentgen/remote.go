package contentgen

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

// ChatCompleter is the slice of the go-openai client remote generation needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

type Mode string

const (
	// ModeChat sends one prompt and uses the completion text.
	ModeChat Mode = "chat"
	// ModeTools offers the tool registry and resolves tool calls before the final answer.
	ModeTools Mode = "tools"
)

const DefaultMaxToolRounds = 3

type RemoteConfig struct {
	Model         string
	Temperature   float32
	MaxTokens     int
	Mode          Mode
	MaxToolRounds int
}

type Remote struct {
	log    *logger.Logger
	client ChatCompleter
	cfg    RemoteConfig
	tools  *ToolRegistry
}

func NewRemote(log *logger.Logger, client ChatCompleter, cfg RemoteConfig, tools *ToolRegistry) *Remote {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = openai.DefaultModel
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	if cfg.Mode != ModeTools {
		cfg.Mode = ModeChat
	}
	return &Remote{log: log.With("component", "RemoteContent"), client: client, cfg: cfg, tools: tools}
}

func (r *Remote) GenerateContent(ctx context.Context, in LessonInput) (string, error) {
	if r == nil || r.client == nil {
		return "", apperr.ErrCredentialMissing
	}
	messages := []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: goopenai.ChatMessageRoleUser, Content: lessonPrompt(in)},
	}
	var (
		text string
		err  error
	)
	if r.cfg.Mode == ModeTools && r.tools != nil {
		text, err = r.runToolLoop(ctx, messages)
	} else {
		text, err = r.complete(ctx, messages)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *Remote) request(messages []goopenai.ChatCompletionMessage, tools []goopenai.Tool) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = "auto"
	}
	return req
}

func (r *Remote) complete(ctx context.Context, messages []goopenai.ChatCompletionMessage) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, r.request(messages, nil))
	if err != nil {
		return "", apperr.NewExternal("content_generation", "chat_completion", openai.MapError(err))
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

const systemPrompt = "You are an expert educational content creator. You write clear, accurate and engaging lesson notes in Markdown, adapted to the learner's level and goal."

func lessonPrompt(in LessonInput) string {
	var b strings.Builder
	b.WriteString("Write detailed lesson notes for the following lesson.\n\n")
	fmt.Fprintf(&b, "Lesson title: %s\n", in.LessonTitle)
	fmt.Fprintf(&b, "Module: %s\n", in.ModuleTitle)
	fmt.Fprintf(&b, "Course topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Level: %s\n", in.Level)
	if in.LearningGoal != "" {
		fmt.Fprintf(&b, "Learning goal: %s\n", in.LearningGoal)
	}
	b.WriteString("\nThe notes must include:\n")
	b.WriteString("- the key concepts of the lesson with short definitions\n")
	b.WriteString("- worked examples\n")
	b.WriteString("- common misconceptions and how to avoid them\n")
	b.WriteString("- best practices\n")
	b.WriteString("\nRespond with Markdown only, starting with a level-one heading.")
	return b.String()
}

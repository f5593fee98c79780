// Package contentgen produces lesson notes. Remote generation goes through a
// chat-completion model; local generation is deterministic Markdown and is the
// fallback for every remote failure.
package contentgen

import (
	"context"
	"errors"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
)

type LessonInput struct {
	Topic        string
	ModuleTitle  string
	LessonTitle  string
	Level        coursegen.Level
	LearningGoal coursegen.LearningGoal
}

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// FallbackReason says why local content was used.
type FallbackReason string

const (
	ReasonNone         FallbackReason = ""
	ReasonNoCredential FallbackReason = "no_credential"
	ReasonServiceError FallbackReason = "service_error"
	ReasonTimeout      FallbackReason = "timeout"
	ReasonEmpty        FallbackReason = "empty_response"
)

const (
	NoteNoCredential = "AI-generated notes are unavailable because no content generation API key is configured. Standard lesson notes are shown instead."
	NoteServiceError = "The content generation service returned an error. Standard lesson notes are shown instead."
	NoteTimeout      = "The content generation service did not respond in time. Standard lesson notes are shown instead."
	NoteEmpty        = "The content generation service returned an empty response. Standard lesson notes are shown instead."
)

// Note returns the lesson contentNote for a fallback reason.
func (r FallbackReason) Note() string {
	switch r {
	case ReasonNoCredential:
		return NoteNoCredential
	case ReasonServiceError:
		return NoteServiceError
	case ReasonTimeout:
		return NoteTimeout
	case ReasonEmpty:
		return NoteEmpty
	default:
		return ""
	}
}

type Result struct {
	Content string
	Source  Source
	Reason  FallbackReason
}

// Note is empty when remote generation succeeded.
func (r Result) Note() string { return r.Reason.Note() }

func (r Result) Degraded() bool { return r.Reason != ReasonNone }

// Generator never fails; degraded output is signalled through Result.Reason.
type Generator interface {
	Generate(ctx context.Context, in LessonInput) Result
	// RemoteAvailable reports whether a remote credential is configured.
	RemoteAvailable() bool
}

// Strategy is a single generation backend that may fail.
type Strategy interface {
	GenerateContent(ctx context.Context, in LessonInput) (string, error)
}

var (
	ErrEmptyCompletion    = errors.New("empty completion")
	ErrToolRoundsExceeded = errors.New("tool call rounds exceeded")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrMissingToolCalls   = errors.New("finish reason tool_calls without tool calls")
)

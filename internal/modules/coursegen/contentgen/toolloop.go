package contentgen

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

// runToolLoop asks the model with tools enabled. Every call in a batch is
// answered with its own tool message before the next request. A batch
// arriving after MaxToolRounds rounds fails the generation.
func (r *Remote) runToolLoop(ctx context.Context, messages []goopenai.ChatCompletionMessage) (string, error) {
	defs := r.tools.Definitions()
	for round := 0; ; round++ {
		resp, err := r.client.CreateChatCompletion(ctx, r.request(messages, defs))
		if err != nil {
			return "", apperr.NewExternal("content_generation", "chat_completion", openai.MapError(err))
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}
		choice := resp.Choices[0]
		msg := choice.Message
		if len(msg.ToolCalls) == 0 {
			if choice.FinishReason == goopenai.FinishReasonToolCalls {
				return "", fmt.Errorf("%w: round %d", ErrMissingToolCalls, round+1)
			}
			return msg.Content, nil
		}
		if round >= r.cfg.MaxToolRounds {
			return "", fmt.Errorf("%w: limit %d", ErrToolRoundsExceeded, r.cfg.MaxToolRounds)
		}

		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:      goopenai.ChatMessageRoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})
		for _, call := range msg.ToolCalls {
			r.log.Debug("Executing tool call", "round", round+1, "tool", call.Function.Name, "tool_call_id", call.ID)
			out, err := r.tools.Execute(ctx, call.Function.Name, call.Function.Arguments)
			if err != nil {
				return "", err
			}
			messages = append(messages, goopenai.ChatCompletionMessage{
				Role:       goopenai.ChatMessageRoleTool,
				Content:    out,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
}

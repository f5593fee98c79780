package contentgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

type scriptedCompleter struct {
	responses []goopenai.ChatCompletionResponse
	err       error
	requests  []goopenai.ChatCompletionRequest
}

func (s *scriptedCompleter) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return goopenai.ChatCompletionResponse{}, s.err
	}
	if len(s.responses) == 0 {
		return goopenai.ChatCompletionResponse{}, errors.New("no scripted response")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func textResponse(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{Choices: []goopenai.ChatCompletionChoice{{
		Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: content},
	}}}
}

func toolResponse(calls ...goopenai.ToolCall) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{Choices: []goopenai.ChatCompletionChoice{{
		Message:      goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, ToolCalls: calls},
		FinishReason: goopenai.FinishReasonToolCalls,
	}}}
}

func call(id, name, args string) goopenai.ToolCall {
	return goopenai.ToolCall{
		ID:       id,
		Type:     goopenai.ToolTypeFunction,
		Function: goopenai.FunctionCall{Name: name, Arguments: args},
	}
}

func newToolRemote(t *testing.T, c ChatCompleter) *Remote {
	t.Helper()
	reg, err := NewToolRegistry(DefaultTools(nil)...)
	if err != nil {
		t.Fatalf("NewToolRegistry: %v", err)
	}
	return NewRemote(nil, c, RemoteConfig{Model: "test-model", Mode: ModeTools}, reg)
}

const lessonArgs = `{"lessonTitle":"Loops","moduleTitle":"Core Python Skills","courseTopic":"Python","difficulty":"Beginner","goal":"Academic"}`

func TestRemoteChatMode(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{textResponse("  # Loops\n\nnotes  ")}}
	r := NewRemote(nil, c, RemoteConfig{Model: "m", Temperature: 0.7, MaxTokens: 2048}, nil)

	got, err := r.GenerateContent(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if got != "# Loops\n\nnotes" {
		t.Fatalf("content: want=%q got=%q", "# Loops\n\nnotes", got)
	}
	if len(c.requests) != 1 {
		t.Fatalf("requests: want=1 got=%d", len(c.requests))
	}
	req := c.requests[0]
	if req.Model != "m" || req.MaxTokens != 2048 || len(req.Tools) != 0 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.Messages[1].Content, "What is Python Basics?") {
		t.Fatalf("user prompt missing lesson title: %q", req.Messages[1].Content)
	}
}

func TestRemoteWrapsServiceErrors(t *testing.T) {
	c := &scriptedCompleter{err: errors.New("boom")}
	r := NewRemote(nil, c, RemoteConfig{}, nil)
	_, err := r.GenerateContent(context.Background(), sampleInput())
	var ext *apperr.ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("want ExternalServiceError got %v", err)
	}
}

func TestRemoteNoChoicesIsEmpty(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{{}}}
	_, err := NewRemote(nil, c, RemoteConfig{}, nil).GenerateContent(context.Background(), sampleInput())
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("want ErrEmptyCompletion got %v", err)
	}
}

func TestToolLoopSingleCall(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
		toolResponse(call("call_1", "generateLessonContent", lessonArgs)),
		textResponse("# Final"),
	}}
	got, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if got != "# Final" {
		t.Fatalf("content: want=%q got=%q", "# Final", got)
	}
	if len(c.requests) != 2 {
		t.Fatalf("requests: want=2 got=%d", len(c.requests))
	}
	if len(c.requests[0].Tools) != 3 {
		t.Fatalf("tools offered: want=3 got=%d", len(c.requests[0].Tools))
	}
	msgs := c.requests[1].Messages
	// system, user, assistant(tool_calls), tool
	if len(msgs) != 4 {
		t.Fatalf("messages: want=4 got=%d", len(msgs))
	}
	toolMsg := msgs[3]
	if toolMsg.Role != goopenai.ChatMessageRoleTool || toolMsg.ToolCallID != "call_1" {
		t.Fatalf("tool message: %+v", toolMsg)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(toolMsg.Content), &payload); err != nil {
		t.Fatalf("tool result not JSON: %v", err)
	}
	if payload["title"] != "Loops" {
		t.Fatalf("tool title: want=Loops got=%v", payload["title"])
	}
}

func TestToolLoopAnswersEveryCallInBatch(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
		toolResponse(
			call("a", "generateLessonContent", lessonArgs),
			call("b", "generateQuizQuestions", `{"lessonTitle":"Loops","difficulty":"Beginner","numberOfQuestions":3}`),
			call("c", "generateCourseStructure", `{"topic":"Python","difficulty":"Intermediate","goal":"Career","duration":10}`),
		),
		textResponse("# Done"),
	}}
	if _, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput()); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	msgs := c.requests[1].Messages
	if len(msgs) != 6 {
		t.Fatalf("messages: want=6 got=%d", len(msgs))
	}
	ids := []string{msgs[3].ToolCallID, msgs[4].ToolCallID, msgs[5].ToolCallID}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Fatalf("tool_call_ids: want=a,b,c got=%v", ids)
	}
	if !strings.Contains(msgs[4].Content, "disabled") {
		t.Fatalf("quiz tool should report disabled: %s", msgs[4].Content)
	}
	var outline map[string]any
	if err := json.Unmarshal([]byte(msgs[5].Content), &outline); err != nil {
		t.Fatalf("outline not JSON: %v", err)
	}
	modules, _ := outline["modules"].([]any)
	// Intermediate, 10h: base 5, +1 = 6
	if len(modules) != 6 {
		t.Fatalf("outline modules: want=6 got=%d", len(modules))
	}
}

func TestToolLoopUnknownTool(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
		toolResponse(call("x", "deleteEverything", `{}`)),
	}}
	_, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput())
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("want ErrUnknownTool got %v", err)
	}
}

func TestToolLoopInvalidArguments(t *testing.T) {
	for _, args := range []string{
		`{"lessonTitle":"Loops"}`,
		`{"lessonTitle":"Loops","moduleTitle":"M","courseTopic":"T","difficulty":"Expert"}`,
		`not json`,
	} {
		c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
			toolResponse(call("x", "generateLessonContent", args)),
		}}
		if _, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput()); err == nil {
			t.Fatalf("args %s: expected error", args)
		}
	}
}

func TestToolLoopRoundLimit(t *testing.T) {
	var responses []goopenai.ChatCompletionResponse
	for i := 0; i < DefaultMaxToolRounds+1; i++ {
		responses = append(responses, toolResponse(call("r", "generateLessonContent", lessonArgs)))
	}
	c := &scriptedCompleter{responses: responses}
	_, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput())
	if !errors.Is(err, ErrToolRoundsExceeded) {
		t.Fatalf("want ErrToolRoundsExceeded got %v", err)
	}
	if len(c.requests) != DefaultMaxToolRounds+1 {
		t.Fatalf("requests: want=%d got=%d", DefaultMaxToolRounds+1, len(c.requests))
	}
}

func TestToolLoopToolCallsFinishWithoutCalls(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{toolResponse()}}
	_, err := newToolRemote(t, c).GenerateContent(context.Background(), sampleInput())
	if !errors.Is(err, ErrMissingToolCalls) {
		t.Fatalf("want ErrMissingToolCalls got %v", err)
	}

	c = &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
		toolResponse(call("a", "generateLessonContent", lessonArgs)),
		toolResponse(),
	}}
	res := NewFallback(nil, newToolRemote(t, c), 0).Generate(context.Background(), sampleInput())
	if res.Reason != ReasonServiceError || res.Source != SourceLocal {
		t.Fatalf("result: want=local/service_error got=%s/%s", res.Source, res.Reason)
	}
	if res.Content != RenderLocal(sampleInput()) {
		t.Fatalf("expected local content after malformed tool turn")
	}
}

func TestToolLoopFailureFallsBackToLocal(t *testing.T) {
	c := &scriptedCompleter{responses: []goopenai.ChatCompletionResponse{
		toolResponse(call("x", "unknownTool", `{}`)),
	}}
	res := NewFallback(nil, newToolRemote(t, c), 0).Generate(context.Background(), sampleInput())
	if res.Reason != ReasonServiceError || res.Source != SourceLocal {
		t.Fatalf("result: want=local/service_error got=%s/%s", res.Source, res.Reason)
	}
}

func TestRemoteOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"# Over HTTP"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client, err := openai.NewClient(nil, openai.Config{APIKey: "test-key", BaseURL: srv.URL, Model: "m"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := NewRemote(nil, client, RemoteConfig{Model: "m"}, nil).GenerateContent(context.Background(), sampleInput())
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if got != "# Over HTTP" {
		t.Fatalf("content: want=%q got=%q", "# Over HTTP", got)
	}
}

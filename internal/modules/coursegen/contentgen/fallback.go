package contentgen

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
)

const DefaultTimeout = 15 * time.Second

type Config struct {
	Mode    Mode
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	mode := Mode(strings.ToLower(envutil.String("CONTENT_GENERATION_MODE", string(ModeChat))))
	if mode != ModeTools {
		mode = ModeChat
	}
	return Config{
		Mode:    mode,
		Timeout: envutil.Seconds("CONTENT_GENERATION_TIMEOUT_SECONDS", DefaultTimeout),
	}
}

// Fallback tries remote generation and substitutes local content whenever the
// remote path is unavailable, fails, times out or returns nothing.
type Fallback struct {
	log     *logger.Logger
	remote  Strategy
	local   Strategy
	timeout time.Duration
}

// NewFallback treats a nil remote as "no credential configured".
func NewFallback(log *logger.Logger, remote Strategy, timeout time.Duration) *Fallback {
	if log == nil {
		log = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fallback{
		log:     log.With("component", "ContentGenerator"),
		remote:  remote,
		local:   Local{},
		timeout: timeout,
	}
}

func (f *Fallback) RemoteAvailable() bool { return f != nil && f.remote != nil }

func (f *Fallback) Generate(ctx context.Context, in LessonInput) Result {
	if f.remote == nil {
		return f.localResult(ctx, in, ReasonNoCredential)
	}

	content, err := f.callRemote(ctx, in)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		f.log.Warn("Remote lesson generation timed out; using local notes",
			"lesson", in.LessonTitle, "timeout", f.timeout.String())
		return f.localResult(ctx, in, ReasonTimeout)
	case err != nil:
		var se *openai.StatusError
		if errors.As(err, &se) && se.IsCredentialStatus() {
			f.log.Warn("Remote lesson generation rejected the API key; using local notes",
				"lesson", in.LessonTitle, "status", se.StatusCode)
		} else {
			f.log.Warn("Remote lesson generation failed; using local notes",
				"lesson", in.LessonTitle, "error", err)
		}
		return f.localResult(ctx, in, ReasonServiceError)
	case strings.TrimSpace(content) == "":
		f.log.Warn("Remote lesson generation returned no content; using local notes", "lesson", in.LessonTitle)
		return f.localResult(ctx, in, ReasonEmpty)
	}
	return Result{Content: content, Source: SourceRemote}
}

type remoteOutcome struct {
	content string
	err     error
}

// callRemote bounds the remote call by the timeout even if the strategy
// ignores its context; the buffered channel lets a late call finish unobserved.
func (f *Fallback) callRemote(ctx context.Context, in LessonInput) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan remoteOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				f.log.Error("Remote lesson generation panicked", "lesson", in.LessonTitle, "panic", rec)
				done <- remoteOutcome{err: errors.New("remote generation panicked")}
			}
		}()
		content, err := f.remote.GenerateContent(cctx, in)
		done <- remoteOutcome{content: content, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && cctx.Err() == context.DeadlineExceeded {
			return "", context.DeadlineExceeded
		}
		if errors.Is(out.err, ErrEmptyCompletion) {
			return "", nil
		}
		return out.content, out.err
	case <-cctx.Done():
		// a cancelled parent counts as a timeout too; the lesson still gets local notes
		return "", context.DeadlineExceeded
	}
}

func (f *Fallback) localResult(ctx context.Context, in LessonInput, reason FallbackReason) Result {
	content, _ := f.local.GenerateContent(ctx, in)
	return Result{Content: content, Source: SourceLocal, Reason: reason}
}

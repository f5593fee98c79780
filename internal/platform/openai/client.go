// Package openai builds the chat-completion client used for remote lesson
// generation. Any OpenAI-compatible endpoint works; GitHub Models is the default.
package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://models.github.ai/inference"
	DefaultModel   = "openai/gpt-4o"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	HTTPTimeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:      envutil.String("OPENAI_API_KEY", ""),
		BaseURL:     envutil.String("OPENAI_BASE_URL", DefaultBaseURL),
		Model:       envutil.String("OPENAI_MODEL", DefaultModel),
		Temperature: float32(envutil.Float("OPENAI_TEMPERATURE", 0.7)),
		MaxTokens:   envutil.Int("OPENAI_MAX_TOKENS", 2048),
		HTTPTimeout: envutil.Seconds("OPENAI_HTTP_TIMEOUT_SECONDS", 60*time.Second),
	}
}

// HasCredential reports whether remote generation can be attempted at all.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// NewClient returns nil, nil when no API key is configured; callers treat a nil
// client as "remote generation unavailable".
func NewClient(log *logger.Logger, cfg Config) (*goopenai.Client, error) {
	if !cfg.HasCredential() {
		if log != nil {
			log.Warn("OPENAI_API_KEY not set; lesson notes will use local templates")
		}
		return nil, nil
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("invalid OPENAI_BASE_URL %q", cfg.BaseURL)
	}
	oc := goopenai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = base
	if cfg.HTTPTimeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if log != nil {
		log.Info("Chat completion client initialized", "base_url", base, "model", cfg.Model)
	}
	return goopenai.NewClientWithConfig(oc), nil
}

// StatusError exposes the upstream HTTP status of a go-openai error.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat completion http %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// IsCredentialStatus reports 401/403 responses.
func (e *StatusError) IsCredentialStatus() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MapError attaches the upstream status when go-openai reports one.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}

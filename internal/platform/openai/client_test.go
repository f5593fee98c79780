package openai

import (
	"errors"
	"net/http"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")
	cfg := ConfigFromEnv()
	if cfg.HasCredential() {
		t.Fatalf("HasCredential: want=false")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL: want=%q got=%q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("Model: want=%q got=%q", DefaultModel, cfg.Model)
	}
	if cfg.MaxTokens != 2048 {
		t.Fatalf("MaxTokens: want=2048 got=%d", cfg.MaxTokens)
	}
}

func TestNewClientWithoutKeyReturnsNil(t *testing.T) {
	c, err := NewClient(logger.NewNop(), Config{})
	if err != nil || c != nil {
		t.Fatalf("NewClient: want nil,nil got=%v,%v", c, err)
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	if _, err := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: "models.github.ai"}); err == nil {
		t.Fatalf("NewClient: expected error for base url without scheme")
	}
}

func TestMapErrorCarriesStatus(t *testing.T) {
	err := MapError(&goopenai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("MapError: want *StatusError got=%T", err)
	}
	if !se.IsCredentialStatus() || se.HTTPStatusCode() != http.StatusUnauthorized {
		t.Fatalf("status: got=%d", se.HTTPStatusCode())
	}
	plain := errors.New("boom")
	if MapError(plain) != plain {
		t.Fatalf("MapError: want passthrough for plain errors")
	}
}

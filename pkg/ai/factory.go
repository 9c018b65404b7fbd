package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	ollamaBaseURL = "http://localhost:11434/v1"
	ollamaModel   = "llama3"

	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	geminiModel   = "gemini-2.0-flash"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType
	APIKey   string
	BaseURL  string
	Model    string
}

// NewDraftWriter creates a DraftWriter based on the config. Model-backed
// writers are wrapped so that failures fall back to the template writer.
// This is the factory function - switch AI provider by changing config.Provider
func NewDraftWriter(cfg Config, logger *slog.Logger) (DraftWriter, error) {
	template := NewTemplateWriter()

	var primary DraftWriter
	switch ProviderType(strings.ToLower(string(cfg.Provider))) {
	case ProviderTemplate, "":
		return template, nil

	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("AI_API_KEY is required for the openai provider")
		}
		primary = NewOpenAIWriter(cfg.APIKey, cfg.BaseURL, orDefault(cfg.Model, openai.GPT4oMini))

	case ProviderOllama:
		// Ollama ignores the key but the client requires one.
		primary = NewOpenAIWriter(orDefault(cfg.APIKey, "ollama"), orDefault(cfg.BaseURL, ollamaBaseURL), orDefault(cfg.Model, ollamaModel))

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, errors.New("AI_API_KEY is required for the gemini provider")
		}
		primary = NewOpenAIWriter(cfg.APIKey, orDefault(cfg.BaseURL, geminiBaseURL), orDefault(cfg.Model, geminiModel))

	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.Provider)
	}

	return NewFallbackWriter(primary, template, logger), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{"429", "quota", "rate limit", "too many requests", "resource_exhausted"} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

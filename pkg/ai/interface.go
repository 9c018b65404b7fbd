package ai

import "context"

// Draft is one suggested follow-up message.
type Draft struct {
	Tone string `json:"tone"`
	Body string `json:"body"`
}

// DraftRequest describes the thread being followed up on.
type DraftRequest struct {
	Preview string
	Tone    string
}

// DraftWriter is the interface for follow-up draft generation.
// Implement this interface to add new AI providers.
type DraftWriter interface {
	WriteDrafts(ctx context.Context, req DraftRequest) ([]Draft, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderTemplate ProviderType = "template"
	ProviderOpenAI   ProviderType = "openai"
	ProviderOllama   ProviderType = "ollama"
	ProviderGemini   ProviderType = "gemini"
)

const (
	DefaultTone = "neutral"

	// MaxPreviewRunes bounds how much of the thread is quoted into a draft.
	MaxPreviewRunes = 240
)

// Tones returns the three tones drafted for a request, the requested one first.
func Tones(requested string) []string {
	if requested == "" {
		requested = DefaultTone
	}
	return []string{requested, "warm", "direct"}
}

// ClipPreview trims the preview to MaxPreviewRunes.
func ClipPreview(preview string) string {
	r := []rune(preview)
	if len(r) > MaxPreviewRunes {
		return string(r[:MaxPreviewRunes])
	}
	return preview
}

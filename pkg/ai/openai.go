package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIWriter drafts with any OpenAI-compatible chat completion API
// (OpenAI, Ollama's /v1 endpoint, Gemini's OpenAI endpoint).
type OpenAIWriter struct {
	client *openai.Client
	model  string
}

// NewOpenAIWriter creates a writer. An empty baseURL uses api.openai.com.
func NewOpenAIWriter(apiKey, baseURL, model string) *OpenAIWriter {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIWriter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

const systemPrompt = `You write short, polite follow-up emails for a thread that has gone quiet.
Return only a JSON array of objects with "tone" and "body" keys, one per requested tone, in the requested order.
Each body is at most 80 words, has no subject line and no signature.`

func (w *OpenAIWriter) WriteDrafts(ctx context.Context, req DraftRequest) ([]Draft, error) {
	tones := Tones(req.Tone)
	prompt := fmt.Sprintf("Tones: %s\n\nThread preview:\n%s", strings.Join(tones, ", "), ClipPreview(req.Preview))

	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   600,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return parseDrafts(resp.Choices[0].Message.Content, tones)
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseDrafts extracts the JSON array from a model reply, tolerating code
// fences and surrounding prose. Missing tones are reported as an error.
func parseDrafts(content string, tones []string) ([]Draft, error) {
	raw := jsonArrayPattern.FindString(content)
	if raw == "" {
		return nil, errors.New("model reply contains no JSON array")
	}

	var parsed []Draft
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}

	// A tone may be requested twice (e.g. "warm" as the chosen tone and as the
	// fixed second variant), so each parsed entry is consumed at most once.
	byTone := make(map[string][]int, len(parsed))
	for i, d := range parsed {
		parsed[i].Body = strings.TrimSpace(d.Body)
		if parsed[i].Body != "" {
			key := strings.ToLower(strings.TrimSpace(d.Tone))
			byTone[key] = append(byTone[key], i)
		}
	}
	used := make([]bool, len(parsed))

	drafts := make([]Draft, 0, len(tones))
	for i, tone := range tones {
		pick := -1
		key := strings.ToLower(tone)
		for len(byTone[key]) > 0 && pick < 0 {
			next := byTone[key][0]
			byTone[key] = byTone[key][1:]
			if !used[next] {
				pick = next
			}
		}
		if pick < 0 && i < len(parsed) && !used[i] && parsed[i].Body != "" {
			pick = i
		}
		if pick < 0 {
			return nil, fmt.Errorf("model reply is missing the %q draft", tone)
		}
		used[pick] = true
		drafts = append(drafts, Draft{Tone: tone, Body: parsed[pick].Body})
	}
	return drafts, nil
}

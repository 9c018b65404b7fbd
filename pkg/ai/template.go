package ai

import (
	"context"
	"fmt"
)

// TemplateWriter produces fixed drafts without calling a model.
type TemplateWriter struct{}

func NewTemplateWriter() *TemplateWriter {
	return &TemplateWriter{}
}

func (w *TemplateWriter) WriteDrafts(_ context.Context, req DraftRequest) ([]Draft, error) {
	preview := ClipPreview(req.Preview)
	tones := Tones(req.Tone)
	return []Draft{
		{Tone: tones[0], Body: fmt.Sprintf("Quick bump on this. Context: %s", preview)},
		{Tone: tones[1], Body: fmt.Sprintf("Following up kindly here. Context: %s", preview)},
		{Tone: tones[2], Body: fmt.Sprintf("Checking status. Please advise. Context: %s", preview)},
	}, nil
}

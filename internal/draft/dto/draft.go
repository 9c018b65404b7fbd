package dto

import "looppilot/pkg/ai"

type GenerateDraftsRequest struct {
	ThreadPreview string `json:"thread_preview"`
	Tone          string `json:"tone" binding:"omitempty,max=32"`

	// Accepted for older dashboard clients.
	ThreadPreviewCamel string `json:"threadPreview"`
}

// Preview returns whichever preview field the client sent.
func (r *GenerateDraftsRequest) Preview() string {
	if r.ThreadPreview != "" {
		return r.ThreadPreview
	}
	return r.ThreadPreviewCamel
}

type GenerateDraftsResponse struct {
	Drafts []ai.Draft `json:"drafts"`
}

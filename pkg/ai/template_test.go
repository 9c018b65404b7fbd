package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateWriter_Tones(t *testing.T) {
	w := NewTemplateWriter()

	drafts, err := w.WriteDrafts(context.Background(), DraftRequest{Preview: "Pricing proposal", Tone: "friendly"})
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "friendly", drafts[0].Tone)
	assert.Equal(t, "warm", drafts[1].Tone)
	assert.Equal(t, "direct", drafts[2].Tone)
	assert.Equal(t, "Quick bump on this. Context: Pricing proposal", drafts[0].Body)
	assert.Equal(t, "Checking status. Please advise. Context: Pricing proposal", drafts[2].Body)
}

func TestTemplateWriter_DefaultToneAndClip(t *testing.T) {
	w := NewTemplateWriter()
	long := strings.Repeat("é", 300)

	drafts, err := w.WriteDrafts(context.Background(), DraftRequest{Preview: long})
	require.NoError(t, err)

	assert.Equal(t, DefaultTone, drafts[0].Tone)
	quoted := strings.TrimPrefix(drafts[0].Body, "Quick bump on this. Context: ")
	assert.Equal(t, MaxPreviewRunes, len([]rune(quoted)))
}

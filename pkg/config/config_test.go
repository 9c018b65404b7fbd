package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.SyncMaxPages)
	assert.Equal(t, 30, cfg.SyncLookbackDays)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, time.Duration(0), cfg.SyncInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SYNC_MAX_PAGES", "5")
	t.Setenv("SYNC_INTERVAL", "10m")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.SyncMaxPages)
	assert.Equal(t, 10*time.Minute, cfg.SyncInterval)
	assert.True(t, cfg.StripeEnabled())
}

func TestLoad_RejectsNonPositivePageCap(t *testing.T) {
	t.Setenv("SYNC_MAX_PAGES", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestPubSubTopicName(t *testing.T) {
	tests := []struct {
		project, topic, want string
	}{
		{"", "", ""},
		{"proj", "", ""},
		{"proj", "gmail-push", "projects/proj/topics/gmail-push"},
		{"proj", "projects/other/topics/x", "projects/other/topics/x"},
		{"", "gmail-push", "gmail-push"},
	}
	for _, tt := range tests {
		cfg := &Config{GoogleProjectID: tt.project, GooglePubSubTopic: tt.topic}
		assert.Equal(t, tt.want, cfg.PubSubTopicName())
	}
}

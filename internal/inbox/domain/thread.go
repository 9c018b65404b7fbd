package domain

import "time"

// Thread is the indexed form of one Gmail conversation. Rows are written only
// by sync and carry no auto-managed timestamps, so re-syncing unchanged mail
// leaves them identical.
type Thread struct {
	UserID         string     `json:"-" gorm:"primaryKey;size:64"`
	ThreadID       string     `json:"thread_id" gorm:"primaryKey;size:64"`
	Subject        string     `json:"subject" gorm:"size:255"`
	Snippet        string     `json:"snippet" gorm:"size:500"`
	LastOutboundAt *time.Time `json:"last_outbound_at"`
	LastInboundAt  *time.Time `json:"last_inbound_at"`
}

func (Thread) TableName() string { return "gmail_threads" }

// SyncState tracks the last completed sync for a user.
type SyncState struct {
	UserID        string     `json:"-" gorm:"primaryKey;size:64"`
	LastSyncAt    *time.Time `json:"last_sync_at"`
	LastHistoryID *uint64    `json:"last_history_id"`
}

func (SyncState) TableName() string { return "gmail_sync_states" }

// GoogleToken is the stored OAuth credential of a connected mailbox.
type GoogleToken struct {
	UserID       string    `json:"-" gorm:"primaryKey;size:64"`
	EmailAddress string    `json:"email_address" gorm:"index"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"-"`
	Scope        string    `json:"-"`
	Expiry       time.Time `json:"expiry"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (GoogleToken) TableName() string { return "google_oauth_tokens" }

// TokenRefreshFunc persists a credential after the access token was refreshed.
type TokenRefreshFunc func(token *GoogleToken) error

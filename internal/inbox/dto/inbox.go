package dto

import (
	"time"

	inboxdomain "looppilot/internal/inbox/domain"
)

// SyncRequest is the optional body of POST /sync.
type SyncRequest struct {
	LookbackDays int `json:"lookback_days" binding:"omitempty,min=1,max=365"`
	MaxPages     int `json:"max_pages" binding:"omitempty,min=1,max=50"`
}

type SyncResponse struct {
	StartedAt      time.Time `json:"started_at"`
	IndexedThreads int       `json:"indexed_threads"`
}

type OpenLoopsResponse struct {
	Items      []inboxdomain.OpenLoop  `json:"items"`
	NextCursor *string                 `json:"next_cursor"`
	Summary    inboxdomain.LoopSummary `json:"summary"`
}

type InboxStatusResponse struct {
	Provider     string     `json:"provider"`
	Connected    bool       `json:"connected"`
	EmailAddress *string    `json:"email_address"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	Error        *string    `json:"error"`
}

type ConnectURLResponse struct {
	AuthorizeURL string `json:"authorize_url"`
	URL          string `json:"url"`
}

type ThreadListResponse struct {
	Threads []*inboxdomain.Thread `json:"threads"`
}

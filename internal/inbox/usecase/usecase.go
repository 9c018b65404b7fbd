package usecase

import (
	"context"

	"looppilot/internal/inbox/domain"
	"looppilot/internal/inbox/dto"
)

// SyncOptions overrides the configured sync window for one pass. Zero values
// use the configured defaults.
type SyncOptions struct {
	LookbackDays int
	MaxPages     int
}

// StateSigner issues and verifies the OAuth state parameter.
type StateSigner interface {
	SignState(userID string) (string, error)
	VerifyState(state string) (string, error)
}

// InboxUsecase defines the business logic of the connected mailbox
type InboxUsecase interface {
	// SyncThreads indexes recent sent threads of the user's mailbox.
	SyncThreads(ctx context.Context, userID string, opts SyncOptions) (*dto.SyncResponse, error)

	// SyncAll runs a sync for every connected mailbox, one after another.
	SyncAll(ctx context.Context) (synced int, failed int)

	// HandlePushNotification records the history id announced for a mailbox
	// and syncs it.
	HandlePushNotification(ctx context.Context, emailAddress string, historyID uint64) error

	// GetOpenLoops classifies the user's indexed threads.
	GetOpenLoops(userID string, minDays, maxDays int) (*dto.OpenLoopsResponse, error)

	GetStatus(userID string) (*dto.InboxStatusResponse, error)

	// ListThreads returns the user's threads, newest outbound first. A
	// non-empty query keeps only fuzzy matches, best match first.
	ListThreads(userID, query string) ([]*domain.Thread, error)
	GetThread(userID, threadID string) (*domain.Thread, error)

	// ConnectURL returns the Google consent URL for the user.
	ConnectURL(userID string) (string, error)

	// HandleCallback completes the OAuth flow and returns the connected user id.
	HandleCallback(ctx context.Context, code, state string) (string, error)
}

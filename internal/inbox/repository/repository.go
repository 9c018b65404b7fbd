package repository

import (
	"time"

	"looppilot/internal/inbox/domain"
)

// ThreadRepository defines data access for indexed threads
type ThreadRepository interface {
	// Upsert inserts the thread or overwrites every column of the row with the
	// same (user_id, thread_id).
	Upsert(thread *domain.Thread) error

	// FindByUserID returns every thread of the user, newest outbound first
	FindByUserID(userID string) ([]*domain.Thread, error)

	// FindByID returns nil when the thread is not indexed
	FindByID(userID, threadID string) (*domain.Thread, error)
}

// SyncStateRepository defines data access for per-user sync bookkeeping
type SyncStateRepository interface {
	FindByUserID(userID string) (*domain.SyncState, error)

	// Ensure creates an empty row if none exists
	Ensure(userID string) error

	// MarkSynced records a completed sync at the given time
	MarkSynced(userID string, at time.Time) error

	// SaveHistoryID records the latest history id seen in a push notification
	SaveHistoryID(userID string, historyID uint64) error
}

// TokenRepository defines data access for stored Google credentials
type TokenRepository interface {
	Save(token *domain.GoogleToken) error
	FindByUserID(userID string) (*domain.GoogleToken, error)
	// FindByEmail returns every credential connected to the address. Several
	// accounts may connect the same mailbox.
	FindByEmail(email string) ([]*domain.GoogleToken, error)
	// FindAll returns every connected mailbox
	FindAll() ([]*domain.GoogleToken, error)
}

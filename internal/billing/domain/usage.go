package domain

import (
	"time"

	authdomain "looppilot/internal/auth/domain"

	"gorm.io/datatypes"
)

const (
	EventDraftGenerated = "draft_generated"

	// FreeMonthlyDraftLimit is the number of drafts a free user may generate
	// per UTC calendar month.
	FreeMonthlyDraftLimit = 5
)

// UsageEvent is an append-only analytics record.
type UsageEvent struct {
	ID        string            `json:"id" gorm:"primaryKey;size:36"`
	UserID    string            `json:"user_id" gorm:"index:idx_events_user_type_time;not null"`
	EventType string            `json:"event_type" gorm:"index:idx_events_user_type_time;not null"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at" gorm:"index:idx_events_user_type_time"`
}

func (UsageEvent) TableName() string { return "analytics_events" }

// Usage is the outcome of a quota check.
type Usage struct {
	Allowed       bool                `json:"allowed"`
	Plan          authdomain.PlanTier `json:"plan"`
	UsedThisMonth int                 `json:"used_this_month"`
	// Remaining is only reported for the free tier.
	Remaining *int `json:"remaining,omitempty"`
}

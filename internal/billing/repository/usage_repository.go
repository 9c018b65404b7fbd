package repository

import (
	"time"

	"looppilot/internal/billing/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRepository defines data access for analytics events
type UsageRepository interface {
	Create(event *domain.UsageEvent) error

	// CountInWindow counts events of eventType with from <= created_at < to
	CountInWindow(userID, eventType string, from, to time.Time) (int64, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(event *domain.UsageEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()
	return r.db.Create(event).Error
}

func (r *usageRepository) CountInWindow(userID, eventType string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.UsageEvent{}).
		Where("user_id = ? AND event_type = ? AND created_at >= ? AND created_at < ?", userID, eventType, from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

package repository

import (
	"errors"
	"strings"
	"time"

	"looppilot/internal/inbox/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormThreadRepository implements ThreadRepository using GORM
type gormThreadRepository struct {
	db *gorm.DB
}

// NewGormThreadRepository creates a new GORM-based ThreadRepository
func NewGormThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

func (r *gormThreadRepository) Upsert(thread *domain.Thread) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "thread_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "snippet", "last_outbound_at", "last_inbound_at"}),
	}).Create(thread).Error
}

func (r *gormThreadRepository) FindByUserID(userID string) ([]*domain.Thread, error) {
	var threads []*domain.Thread
	err := r.db.Where("user_id = ?", userID).
		Order("CASE WHEN last_outbound_at IS NULL THEN 1 ELSE 0 END, last_outbound_at DESC, thread_id ASC").
		Find(&threads).Error
	return threads, err
}

func (r *gormThreadRepository) FindByID(userID, threadID string) (*domain.Thread, error) {
	var thread domain.Thread
	err := r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// gormSyncStateRepository implements SyncStateRepository using GORM
type gormSyncStateRepository struct {
	db *gorm.DB
}

// NewGormSyncStateRepository creates a new GORM-based SyncStateRepository
func NewGormSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &gormSyncStateRepository{db: db}
}

func (r *gormSyncStateRepository) FindByUserID(userID string) (*domain.SyncState, error) {
	var state domain.SyncState
	err := r.db.Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *gormSyncStateRepository) Ensure(userID string) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.SyncState{UserID: userID}).Error
}

func (r *gormSyncStateRepository) MarkSynced(userID string, at time.Time) error {
	at = at.UTC()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_sync_at"}),
	}).Create(&domain.SyncState{UserID: userID, LastSyncAt: &at}).Error
}

func (r *gormSyncStateRepository) SaveHistoryID(userID string, historyID uint64) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_history_id"}),
	}).Create(&domain.SyncState{UserID: userID, LastHistoryID: &historyID}).Error
}

// gormTokenRepository implements TokenRepository using GORM
type gormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GORM-based TokenRepository
func NewGormTokenRepository(db *gorm.DB) TokenRepository {
	return &gormTokenRepository{db: db}
}

func (r *gormTokenRepository) Save(token *domain.GoogleToken) error {
	now := time.Now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.UpdatedAt = now
	token.EmailAddress = strings.ToLower(token.EmailAddress)

	updates := []string{"email_address", "access_token", "token_type", "scope", "expiry", "updated_at"}
	// Google omits the refresh token on re-consent; keep the stored one.
	if token.RefreshToken != "" {
		updates = append(updates, "refresh_token")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(token).Error
}

func (r *gormTokenRepository) FindByUserID(userID string) (*domain.GoogleToken, error) {
	return r.findOne("user_id = ?", userID)
}

func (r *gormTokenRepository) FindByEmail(email string) ([]*domain.GoogleToken, error) {
	var tokens []*domain.GoogleToken
	err := r.db.Where("email_address = ?", strings.ToLower(email)).Order("user_id ASC").Find(&tokens).Error
	return tokens, err
}

func (r *gormTokenRepository) findOne(query, arg string) (*domain.GoogleToken, error) {
	var token domain.GoogleToken
	err := r.db.Where(query, arg).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *gormTokenRepository) FindAll() ([]*domain.GoogleToken, error) {
	var tokens []*domain.GoogleToken
	err := r.db.Order("user_id ASC").Find(&tokens).Error
	return tokens, err
}

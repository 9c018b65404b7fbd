package repository

import (
	"errors"
	"time"

	"looppilot/internal/sequence/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTemplateRepository implements TemplateRepository using GORM
type gormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GORM-based TemplateRepository
func NewGormTemplateRepository(db *gorm.DB) TemplateRepository {
	return &gormTemplateRepository{db: db}
}

func (r *gormTemplateRepository) Create(template *domain.Template) error {
	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	return r.db.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault {
			if err := tx.Model(&domain.Template{}).
				Where("user_id = ? AND is_default = ?", template.UserID, true).
				Updates(map[string]interface{}{"is_default": false, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return tx.Create(template).Error
	})
}

func (r *gormTemplateRepository) FindByUserID(userID string) ([]*domain.Template, error) {
	var templates []*domain.Template
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (r *gormTemplateRepository) CountOwned(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&domain.Template{}).Where("user_id = ? AND id IN ?", userID, ids).Count(&count).Error
	return count, err
}

// gormSequenceRepository implements SequenceRepository using GORM
type gormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GORM-based SequenceRepository
func NewGormSequenceRepository(db *gorm.DB) SequenceRepository {
	return &gormSequenceRepository{db: db}
}

func (r *gormSequenceRepository) Create(sequence *domain.Sequence) error {
	if sequence.ID == "" {
		sequence.ID = uuid.New().String()
	}
	sequence.CreatedAt = time.Now()
	sequence.UpdatedAt = sequence.CreatedAt
	return r.db.Create(sequence).Error
}

func (r *gormSequenceRepository) FindByUserID(userID string) ([]*domain.Sequence, error) {
	var sequences []*domain.Sequence
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sequences).Error
	return sequences, err
}

func (r *gormSequenceRepository) FindByID(userID, id string) (*domain.Sequence, error) {
	var sequence domain.Sequence
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&sequence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sequence, nil
}

func (r *gormSequenceRepository) Update(sequence *domain.Sequence) error {
	sequence.UpdatedAt = time.Now()
	return r.db.Save(sequence).Error
}

func (r *gormSequenceRepository) Delete(userID, id string) (bool, error) {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Sequence{})
	return res.RowsAffected > 0, res.Error
}

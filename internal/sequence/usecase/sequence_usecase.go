package usecase

import (
	"strings"

	"looppilot/internal/sequence/domain"
	"looppilot/internal/sequence/dto"
	"looppilot/internal/sequence/repository"
	"looppilot/pkg/apperr"

	"gorm.io/datatypes"
)

// sequenceUsecase implements SequenceUsecase interface
type sequenceUsecase struct {
	templateRepo repository.TemplateRepository
	sequenceRepo repository.SequenceRepository
}

// NewSequenceUsecase creates a new instance of sequenceUsecase
func NewSequenceUsecase(templateRepo repository.TemplateRepository, sequenceRepo repository.SequenceRepository) SequenceUsecase {
	return &sequenceUsecase{
		templateRepo: templateRepo,
		sequenceRepo: sequenceRepo,
	}
}

func (u *sequenceUsecase) ListTemplates(userID string) ([]*domain.Template, error) {
	templates, err := u.templateRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load templates", err)
	}
	return templates, nil
}

func (u *sequenceUsecase) CreateTemplate(userID string, req *dto.CreateTemplateRequest) (*domain.Template, error) {
	placeholders := req.Placeholders
	if placeholders == nil {
		placeholders = []string{}
	}

	template := &domain.Template{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Subject:      req.Subject,
		Body:         req.Body,
		Tone:         req.Tone,
		Placeholders: datatypes.NewJSONSlice(placeholders),
		IsDefault:    req.IsDefault,
	}
	if template.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}

	if err := u.templateRepo.Create(template); err != nil {
		return nil, apperr.Storage("failed to create template", err)
	}
	return template, nil
}

func (u *sequenceUsecase) ListSequences(userID string) ([]*domain.Sequence, error) {
	sequences, err := u.sequenceRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load sequences", err)
	}
	return sequences, nil
}

func (u *sequenceUsecase) CreateSequence(userID string, req *dto.CreateSequenceRequest) (*domain.Sequence, error) {
	steps, err := u.buildSteps(userID, req.Steps)
	if err != nil {
		return nil, err
	}

	sequence := &domain.Sequence{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Steps:  steps,
	}
	if sequence.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}

	if err := u.sequenceRepo.Create(sequence); err != nil {
		return nil, apperr.Storage("failed to create sequence", err)
	}
	return sequence, nil
}

func (u *sequenceUsecase) UpdateSequence(userID, sequenceID string, req *dto.UpdateSequenceRequest) (*domain.Sequence, error) {
	sequence, err := u.sequenceRepo.FindByID(userID, sequenceID)
	if err != nil {
		return nil, apperr.Storage("failed to load sequence", err)
	}
	if sequence == nil {
		return nil, apperr.NotFound("sequence not found")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.InvalidInput("name cannot be empty")
		}
		sequence.Name = name
	}
	if req.Steps != nil {
		steps, err := u.buildSteps(userID, *req.Steps)
		if err != nil {
			return nil, err
		}
		sequence.Steps = steps
	}

	if err := u.sequenceRepo.Update(sequence); err != nil {
		return nil, apperr.Storage("failed to update sequence", err)
	}
	return sequence, nil
}

func (u *sequenceUsecase) DeleteSequence(userID, sequenceID string) error {
	deleted, err := u.sequenceRepo.Delete(userID, sequenceID)
	if err != nil {
		return apperr.Storage("failed to delete sequence", err)
	}
	if !deleted {
		return apperr.NotFound("sequence not found")
	}
	return nil
}

// buildSteps converts request steps and checks that every referenced
// template belongs to the user.
func (u *sequenceUsecase) buildSteps(userID string, in []dto.SequenceStepRequest) (datatypes.JSONSlice[domain.SequenceStep], error) {
	steps := make([]domain.SequenceStep, 0, len(in))
	ids := make(map[string]struct{}, len(in))
	for _, s := range in {
		steps = append(steps, domain.SequenceStep{
			DayOffset:  s.DayOffset,
			TemplateID: s.TemplateID,
			Subject:    s.Subject,
			CC:         s.CC,
			BCC:        s.BCC,
		})
		ids[s.TemplateID] = struct{}{}
	}

	if len(ids) > 0 {
		unique := make([]string, 0, len(ids))
		for id := range ids {
			unique = append(unique, id)
		}
		owned, err := u.templateRepo.CountOwned(userID, unique)
		if err != nil {
			return nil, apperr.Storage("failed to check templates", err)
		}
		if owned != int64(len(unique)) {
			return nil, apperr.InvalidInput("steps reference unknown templates")
		}
	}
	return datatypes.NewJSONSlice(steps), nil
}

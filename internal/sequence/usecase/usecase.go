package usecase

import (
	"looppilot/internal/sequence/domain"
	"looppilot/internal/sequence/dto"
)

// SequenceUsecase defines the business logic of templates and sequences.
// Every operation is scoped to userID.
type SequenceUsecase interface {
	ListTemplates(userID string) ([]*domain.Template, error)
	CreateTemplate(userID string, req *dto.CreateTemplateRequest) (*domain.Template, error)

	ListSequences(userID string) ([]*domain.Sequence, error)
	CreateSequence(userID string, req *dto.CreateSequenceRequest) (*domain.Sequence, error)
	UpdateSequence(userID, sequenceID string, req *dto.UpdateSequenceRequest) (*domain.Sequence, error)
	DeleteSequence(userID, sequenceID string) error
}

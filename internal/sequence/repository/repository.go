package repository

import "looppilot/internal/sequence/domain"

// TemplateRepository defines the interface for template data access
type TemplateRepository interface {
	// Create inserts a template. A default template clears the flag on the
	// user's other templates.
	Create(template *domain.Template) error

	// FindByUserID returns the user's templates, newest first.
	FindByUserID(userID string) ([]*domain.Template, error)

	// CountOwned returns how many of ids are templates owned by the user.
	CountOwned(userID string, ids []string) (int64, error)
}

// SequenceRepository defines the interface for sequence data access
type SequenceRepository interface {
	Create(sequence *domain.Sequence) error

	// FindByUserID returns the user's sequences, newest first.
	FindByUserID(userID string) ([]*domain.Sequence, error)

	// FindByID returns nil when the sequence does not exist or belongs to
	// another user.
	FindByID(userID, id string) (*domain.Sequence, error)

	Update(sequence *domain.Sequence) error

	// Delete reports whether a row was removed.
	Delete(userID, id string) (bool, error)
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Template is a reusable follow-up message.
type Template struct {
	ID           string                      `json:"id" gorm:"primaryKey;size:36"`
	UserID       string                      `json:"user_id" gorm:"index;not null"`
	Name         string                      `json:"name" gorm:"not null"`
	Subject      *string                     `json:"subject"`
	Body         string                      `json:"body" gorm:"not null"`
	Tone         *string                     `json:"tone"`
	Placeholders datatypes.JSONSlice[string] `json:"placeholders"`
	IsDefault    bool                        `json:"is_default" gorm:"default:false"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// SequenceStep schedules one template relative to the start of a sequence.
type SequenceStep struct {
	DayOffset  int     `json:"day_offset"`
	TemplateID string  `json:"template_id"`
	Subject    *string `json:"subject,omitempty"`
	CC         *string `json:"cc,omitempty"`
	BCC        *string `json:"bcc,omitempty"`
}

// Sequence is an ordered plan of follow-ups.
type Sequence struct {
	ID        string                            `json:"id" gorm:"primaryKey;size:36"`
	UserID    string                            `json:"user_id" gorm:"index;not null"`
	Name      string                            `json:"name" gorm:"not null"`
	Steps     datatypes.JSONSlice[SequenceStep] `json:"steps"`
	CreatedAt time.Time                         `json:"created_at"`
	UpdatedAt time.Time                         `json:"updated_at"`
}

package dto

type CreateTemplateRequest struct {
	Name         string   `json:"name" binding:"required,max=120"`
	Subject      *string  `json:"subject"`
	Body         string   `json:"body" binding:"required"`
	Tone         *string  `json:"tone"`
	Placeholders []string `json:"placeholders"`
	IsDefault    bool     `json:"is_default"`
}

type SequenceStepRequest struct {
	DayOffset  int     `json:"day_offset" binding:"min=0,max=365"`
	TemplateID string  `json:"template_id" binding:"required"`
	Subject    *string `json:"subject"`
	CC         *string `json:"cc"`
	BCC        *string `json:"bcc"`
}

type CreateSequenceRequest struct {
	Name  string                `json:"name" binding:"required,max=120"`
	Steps []SequenceStepRequest `json:"steps" binding:"dive"`
}

// UpdateSequenceRequest changes only the fields that are present.
type UpdateSequenceRequest struct {
	Name  *string                `json:"name" binding:"omitempty,min=1,max=120"`
	Steps *[]SequenceStepRequest `json:"steps" binding:"omitempty,dive"`
}

package usecase

import (
	"context"

	billingdomain "looppilot/internal/billing/domain"
	"looppilot/internal/draft/dto"
)

// UsageGate is the part of billing that meters draft generation.
type UsageGate interface {
	CheckUsage(userID string) *billingdomain.Usage
	RecordDraftGenerated(userID string, metadata map[string]interface{})
}

// DraftUsecase defines the business logic of follow-up drafting
type DraftUsecase interface {
	// Generate checks the usage gate, writes three drafts and records the
	// generation. It returns a limit_reached error when the gate is closed.
	Generate(ctx context.Context, userID string, req *dto.GenerateDraftsRequest) (*dto.GenerateDraftsResponse, error)
}

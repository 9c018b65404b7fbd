package usecase

import (
	"context"

	authdomain "looppilot/internal/auth/domain"
	"looppilot/internal/billing/domain"
)

// BillingUsecase defines the usage gate and subscription logic
type BillingUsecase interface {
	// CheckUsage decides whether the user may generate another draft. It never
	// fails: lookup errors allow the action.
	CheckUsage(userID string) *domain.Usage

	// RecordDraftGenerated appends one draft_generated event. Failures are
	// logged, not returned.
	RecordDraftGenerated(userID string, metadata map[string]interface{})

	// CreateCheckout returns the hosted checkout URL for priceID.
	CreateCheckout(ctx context.Context, user *authdomain.User, priceID string) (string, error)

	// HandleWebhook verifies and applies a provider event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

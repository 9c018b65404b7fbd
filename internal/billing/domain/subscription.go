package domain

import (
	"context"
	"time"
)

// Subscription is the billing provider's subscription reduced to the fields
// that drive the plan tier.
type Subscription struct {
	ID               string
	CustomerID       string
	Status           string
	PriceID          string
	CurrentPeriodEnd *time.Time
}

// Active reports whether the subscription entitles the customer to a paid tier.
func (s *Subscription) Active() bool {
	return s.Status == "active" || s.Status == "trialing"
}

type WebhookEventType string

const (
	EventCheckoutCompleted   WebhookEventType = "checkout.session.completed"
	EventSubscriptionCreated WebhookEventType = "customer.subscription.created"
	EventSubscriptionUpdated WebhookEventType = "customer.subscription.updated"
	EventSubscriptionDeleted WebhookEventType = "customer.subscription.deleted"
)

// WebhookEvent is a verified provider event.
type WebhookEvent struct {
	ID   string
	Type WebhookEventType
	// Subscription is set for customer.subscription.* events.
	Subscription *Subscription
	// SubscriptionID is set for checkout.session.completed in subscription mode.
	SubscriptionID string
}

type CheckoutParams struct {
	CustomerID string
	PriceID    string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// Provider is the billing vendor.
type Provider interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

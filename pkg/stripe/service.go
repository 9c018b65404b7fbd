// Package stripe adapts the Stripe API to the billing provider interface.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	billingdomain "looppilot/internal/billing/domain"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Service struct {
	api           *client.API
	webhookSecret string
}

func NewService(secretKey, webhookSecret string) *Service {
	return NewServiceWithBackends(secretKey, webhookSecret, nil)
}

// NewServiceWithBackends lets tests route API calls to a local server.
func NewServiceWithBackends(secretKey, webhookSecret string, backends *stripego.Backends) *Service {
	return &Service{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (s *Service) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripego.CustomerParams{
		Email: stripego.String(email),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return customer.ID, nil
}

func (s *Service) CreateCheckoutSession(ctx context.Context, p billingdomain.CheckoutParams) (string, error) {
	params := &stripego.CheckoutSessionParams{
		Mode:     stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		Customer: stripego.String(p.CustomerID),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(p.PriceID), Quantity: stripego.Int64(1)},
		},
		AllowPromotionCodes: stripego.Bool(true),
		ClientReferenceID:   stripego.String(p.UserID),
		SuccessURL:          stripego.String(p.SuccessURL),
		CancelURL:           stripego.String(p.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("user_id", p.UserID)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (s *Service) GetSubscription(ctx context.Context, id string) (*billingdomain.Subscription, error) {
	params := &stripego.SubscriptionParams{}
	params.Context = ctx

	sub, err := s.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	return convertSubscription(sub), nil
}

// ParseWebhook verifies the Stripe-Signature header. API version mismatches
// between the account and this SDK are tolerated because only a few stable
// fields are read.
func (s *Service) ParseWebhook(payload []byte, signature string) (*billingdomain.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &billingdomain.WebhookEvent{
		ID:   event.ID,
		Type: billingdomain.WebhookEventType(event.Type),
	}
	if event.Data == nil {
		return out, nil
	}

	switch string(event.Type) {
	case string(billingdomain.EventCheckoutCompleted):
		var sess stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		if sess.Subscription != nil {
			out.SubscriptionID = sess.Subscription.ID
		}
	case string(billingdomain.EventSubscriptionCreated),
		string(billingdomain.EventSubscriptionUpdated),
		string(billingdomain.EventSubscriptionDeleted):
		var sub stripego.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.Subscription = convertSubscription(&sub)
	}
	return out, nil
}

func convertSubscription(sub *stripego.Subscription) *billingdomain.Subscription {
	out := &billingdomain.Subscription{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		out.CurrentPeriodEnd = &end
	}
	return out
}

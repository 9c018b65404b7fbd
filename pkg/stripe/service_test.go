package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingdomain "looppilot/internal/billing/domain"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signed(t *testing.T, payload string) (string, []byte) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return sp.Header, sp.Payload
}

func TestParseWebhook_Subscription(t *testing.T) {
	s := NewService("sk_test", testSecret)
	header, body := signed(t, `{
		"id": "evt_1",
		"object": "event",
		"api_version": "2020-08-27",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_1",
			"object": "subscription",
			"customer": "cus_1",
			"status": "active",
			"current_period_end": 1767225600,
			"items": {"object": "list", "data": [{"id": "si_1", "object": "subscription_item", "price": {"id": "price_week", "object": "price"}}]}
		}}
	}`)

	event, err := s.ParseWebhook(body, header)
	require.NoError(t, err)

	assert.Equal(t, billingdomain.EventSubscriptionUpdated, event.Type)
	require.NotNil(t, event.Subscription)
	assert.Equal(t, "sub_1", event.Subscription.ID)
	assert.Equal(t, "cus_1", event.Subscription.CustomerID)
	assert.Equal(t, "price_week", event.Subscription.PriceID)
	assert.True(t, event.Subscription.Active())
	require.NotNil(t, event.Subscription.CurrentPeriodEnd)
	assert.True(t, event.Subscription.CurrentPeriodEnd.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	s := NewService("sk_test", testSecret)
	header, body := signed(t, `{
		"id": "evt_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "object": "checkout.session", "mode": "subscription", "subscription": "sub_9"}}
	}`)

	event, err := s.ParseWebhook(body, header)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.EventCheckoutCompleted, event.Type)
	assert.Equal(t, "sub_9", event.SubscriptionID)
	assert.Nil(t, event.Subscription)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	s := NewService("sk_test", testSecret)
	_, body := signed(t, `{"id": "evt_3", "object": "event", "type": "invoice.paid"}`)

	_, err := s.ParseWebhook(body, "t=1,v1=deadbeef")
	assert.Error(t, err)
}

func TestCreateCheckoutSession(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":     "cs_1",
			"object": "checkout.session",
			"url":    "https://checkout.stripe.com/c/pay/cs_1",
		})
	}))
	defer srv.Close()

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		MaxNetworkRetries: stripego.Int64(0),
	})
	s := NewServiceWithBackends("sk_test", testSecret, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})

	url, err := s.CreateCheckoutSession(context.Background(), billingdomain.CheckoutParams{
		CustomerID: "cus_1",
		PriceID:    "price_month",
		UserID:     "u1",
		SuccessURL: "https://app.example.com/dashboard?upgrade=success",
		CancelURL:  "https://app.example.com/dashboard?upgrade=cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", url)

	assert.Equal(t, []string{"subscription"}, form["mode"])
	assert.Equal(t, []string{"cus_1"}, form["customer"])
	assert.Equal(t, []string{"price_month"}, form["line_items[0][price]"])
	assert.Equal(t, []string{"u1"}, form["client_reference_id"])
}

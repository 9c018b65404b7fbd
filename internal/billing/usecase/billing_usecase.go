package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	authdomain "looppilot/internal/auth/domain"
	authrepo "looppilot/internal/auth/repository"
	"looppilot/internal/billing/domain"
	"looppilot/internal/billing/repository"
	"looppilot/pkg/apperr"
	"looppilot/pkg/config"
)

// billingUsecase implements BillingUsecase interface
type billingUsecase struct {
	userRepo  authrepo.UserRepository
	usageRepo repository.UsageRepository
	provider  domain.Provider
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewBillingUsecase creates a new instance of billingUsecase. provider may be
// nil when billing is not configured; the usage gate still works.
func NewBillingUsecase(
	userRepo authrepo.UserRepository,
	usageRepo repository.UsageRepository,
	provider domain.Provider,
	cfg *config.Config,
	logger *slog.Logger,
) BillingUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &billingUsecase{
		userRepo:  userRepo,
		usageRepo: usageRepo,
		provider:  provider,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

var errBillingDisabled = apperr.New(apperr.CodeInvalidInput, "billing is not configured")

func (u *billingUsecase) CreateCheckout(ctx context.Context, user *authdomain.User, priceID string) (string, error) {
	if u.provider == nil {
		return "", errBillingDisabled
	}
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return "", apperr.InvalidInput("price_id is required")
	}
	if !u.knownPrice(priceID) {
		return "", apperr.InvalidInput("unknown price_id")
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		id, err := u.provider.CreateCustomer(ctx, user.Email, user.ID)
		if err != nil {
			return "", apperr.Upstream("failed to create customer", err)
		}
		if err := u.userRepo.SetStripeCustomerID(user.ID, id); err != nil {
			return "", apperr.Storage("failed to save customer id", err)
		}
		customerID = id
		user.StripeCustomerID = id
	}

	site := strings.TrimRight(u.config.SiteURL, "/")
	url, err := u.provider.CreateCheckoutSession(ctx, domain.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     user.ID,
		SuccessURL: site + "/dashboard?upgrade=success",
		CancelURL:  site + "/dashboard?upgrade=cancel",
	})
	if err != nil {
		return "", apperr.Upstream("failed to create checkout session", err)
	}
	return url, nil
}

func (u *billingUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if u.provider == nil {
		return errBillingDisabled
	}
	if signature == "" {
		return apperr.InvalidInput("missing signature")
	}

	event, err := u.provider.ParseWebhook(payload, signature)
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid signature", err)
	}

	switch event.Type {
	case domain.EventCheckoutCompleted:
		if event.SubscriptionID == "" {
			return nil
		}
		sub, err := u.provider.GetSubscription(ctx, event.SubscriptionID)
		if err != nil {
			return apperr.Upstream("failed to retrieve subscription", err)
		}
		return u.applySubscription(sub)

	case domain.EventSubscriptionCreated, domain.EventSubscriptionUpdated:
		if event.Subscription == nil {
			return nil
		}
		return u.applySubscription(event.Subscription)

	case domain.EventSubscriptionDeleted:
		if event.Subscription == nil {
			return nil
		}
		return u.setPlan(event.Subscription.CustomerID, authdomain.PlanFree, nil)

	default:
		// Ignore other events
		return nil
	}
}

func (u *billingUsecase) applySubscription(sub *domain.Subscription) error {
	if !sub.Active() {
		return u.setPlan(sub.CustomerID, authdomain.PlanFree, nil)
	}
	return u.setPlan(sub.CustomerID, u.tierFromPrice(sub.PriceID), sub.CurrentPeriodEnd)
}

func (u *billingUsecase) setPlan(customerID string, tier authdomain.PlanTier, periodEnd *time.Time) error {
	user, err := u.userRepo.FindByStripeCustomerID(customerID)
	if err != nil {
		return apperr.Storage("failed to load profile", err)
	}
	if user == nil {
		u.logger.Info("[Billing] event for unknown customer ignored", "customer_id", customerID)
		return nil
	}

	if err := u.userRepo.UpdatePlan(user.ID, tier, periodEnd); err != nil {
		return apperr.Storage("failed to update plan", err)
	}
	u.logger.Info("[Billing] plan updated", "user_id", user.ID, "plan", tier)
	return nil
}

// knownPrice reports whether priceID is one of the configured plan prices.
func (u *billingUsecase) knownPrice(priceID string) bool {
	for _, p := range []string{u.config.StripePriceIDWeekly, u.config.StripePriceIDMonthly} {
		if p != "" && p == priceID {
			return true
		}
	}
	return false
}

// tierFromPrice maps a price id to a paid tier; unknown prices are monthly.
func (u *billingUsecase) tierFromPrice(priceID string) authdomain.PlanTier {
	if priceID != "" && priceID == u.config.StripePriceIDWeekly {
		return authdomain.PlanProWeekly
	}
	return authdomain.PlanProMonthly
}

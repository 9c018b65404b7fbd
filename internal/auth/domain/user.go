package domain

import "time"

// PlanTier is the subscription level stored on the user's billing profile.
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanProWeekly  PlanTier = "pro_weekly"
	PlanProMonthly PlanTier = "pro_monthly"
)

// IsPaying reports whether the tier bypasses usage quotas.
func (p PlanTier) IsPaying() bool {
	return p == PlanProWeekly || p == PlanProMonthly
}

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"` // Never return password in JSON
	Name     string `json:"name"`

	// Billing profile
	PlanTier         PlanTier   `json:"plan_tier" gorm:"default:free;not null"`
	StripeCustomerID string     `json:"-" gorm:"index"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Plan returns the effective tier, treating unknown values as free.
func (u *User) Plan() PlanTier {
	if u.PlanTier.IsPaying() {
		return u.PlanTier
	}
	return PlanFree
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

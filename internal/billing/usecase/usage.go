package usecase

import (
	authdomain "looppilot/internal/auth/domain"
	"looppilot/internal/billing/domain"
	"looppilot/pkg/datewindow"
)

func (u *billingUsecase) CheckUsage(userID string) *domain.Usage {
	user, err := u.userRepo.FindByID(userID)
	if err != nil || user == nil {
		u.logger.Warn("[Billing] profile lookup failed, allowing action", "user_id", userID, "error", err)
		return freeUsage(0)
	}

	plan := user.Plan()
	if plan.IsPaying() {
		return &domain.Usage{Allowed: true, Plan: plan}
	}

	start, end := datewindow.MonthBoundsUTC(u.now())
	count, err := u.usageRepo.CountInWindow(userID, domain.EventDraftGenerated, start, end)
	if err != nil {
		u.logger.Warn("[Billing] usage count failed, allowing action", "user_id", userID, "error", err)
		return freeUsage(0)
	}

	return freeUsage(int(count))
}

func freeUsage(used int) *domain.Usage {
	remaining := domain.FreeMonthlyDraftLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return &domain.Usage{
		Allowed:       used < domain.FreeMonthlyDraftLimit,
		Plan:          authdomain.PlanFree,
		UsedThisMonth: used,
		Remaining:     &remaining,
	}
}

func (u *billingUsecase) RecordDraftGenerated(userID string, metadata map[string]interface{}) {
	event := &domain.UsageEvent{
		UserID:    userID,
		EventType: domain.EventDraftGenerated,
		Metadata:  metadata,
		CreatedAt: u.now(),
	}
	if err := u.usageRepo.Create(event); err != nil {
		u.logger.Warn("[Billing] failed to record usage event", "user_id", userID, "error", err)
	}
}
